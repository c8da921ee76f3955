package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/JonMunkholm/pricebook/internal/core"
	"github.com/JonMunkholm/pricebook/internal/pricing"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testBatch() core.PriceChangeBatch {
	return core.PriceChangeBatch{
		ImportID: "imp-1",
		Brand:    "acme",
		Changes: []pricing.Change{
			{Kind: pricing.KindBasePrice, EntityID: "d1", ProductID: "d1", OldPrice: "100.00", NewPrice: "150.00"},
			{Kind: pricing.KindOption, EntityID: "o1", ProductID: "d1", GroupID: "g1", OldPrice: "5.00", NewPrice: "7.50"},
		},
		OccurredAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestProducer_PublishPriceChanges(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	if err := p.PublishPriceChanges(context.Background(), testBatch()); err != nil {
		t.Fatalf("PublishPriceChanges() error = %v", err)
	}
	if len(w.msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(w.msgs))
	}

	for _, m := range w.msgs {
		if string(m.Key) != "acme" {
			t.Errorf("Key = %q, want brand", m.Key)
		}
	}

	var event PriceChangedEvent
	if err := json.Unmarshal(w.msgs[1].Value, &event); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if event.Type != "OPTION" || event.EntityID != "o1" || event.GroupID != "g1" {
		t.Errorf("event = %+v", event)
	}
	if event.OldPrice != "5.00" || event.NewPrice != "7.50" {
		t.Errorf("prices = %s -> %s", event.OldPrice, event.NewPrice)
	}
	if event.ImportID != "imp-1" || event.EventID == "" {
		t.Errorf("ids = import %q event %q", event.ImportID, event.EventID)
	}
	if !event.OccurredAt.Equal(testBatch().OccurredAt) {
		t.Errorf("OccurredAt = %v", event.OccurredAt)
	}
}

func TestProducer_EmptyBatchWritesNothing(t *testing.T) {
	w := &fakeWriter{err: errors.New("must not be called")}
	p := &Producer{writer: w}

	batch := testBatch()
	batch.Changes = nil
	if err := p.PublishPriceChanges(context.Background(), batch); err != nil {
		t.Errorf("PublishPriceChanges() error = %v", err)
	}
}

func TestProducer_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := &Producer{writer: w}

	err := p.PublishPriceChanges(context.Background(), testBatch())
	if err == nil || !errors.Is(err, w.err) {
		t.Errorf("PublishPriceChanges() error = %v, want wrapped broker error", err)
	}
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	if err := (&Producer{writer: w}).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !w.closed {
		t.Error("writer not closed")
	}
}
