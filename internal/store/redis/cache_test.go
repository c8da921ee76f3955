package redis

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/pricebook/internal/pricing"
)

func TestCatalogKey(t *testing.T) {
	if got := catalogKey("acme"); got != "pricing:catalog:acme" {
		t.Errorf("catalogKey() = %q", got)
	}
}

func TestDecodeSnapshot(t *testing.T) {
	delta := decimal.RequireFromString("5")
	catalog := pricing.Catalog{
		Brand: "acme",
		Products: []pricing.Product{{
			ID:        "d1",
			Name:      "Desk",
			BasePrice: decimal.RequireFromString("100.00"),
			Groups: []pricing.OptionGroup{{
				ID:      "g1",
				Name:    "Finish",
				Options: []pricing.Option{{ID: "o1", Name: "Oak", PriceDelta: &delta}},
			}},
		}},
		Interiors: []pricing.Interior{{ID: "i1", Name: "Felt", Price: decimal.RequireFromString("12.50")}},
	}
	data, err := json.Marshal(catalog)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		got, err := decodeSnapshot(data, "acme")
		if err != nil {
			t.Fatalf("decodeSnapshot() error = %v", err)
		}
		if !got.Products[0].BasePrice.Equal(catalog.Products[0].BasePrice) {
			t.Errorf("BasePrice = %s", got.Products[0].BasePrice)
		}
		if !got.Products[0].Groups[0].Options[0].PriceDelta.Equal(delta) {
			t.Errorf("PriceDelta = %v", got.Products[0].Groups[0].Options[0].PriceDelta)
		}
		if !got.Interiors[0].Price.Equal(decimal.RequireFromString("12.5")) {
			t.Errorf("Interior price = %s", got.Interiors[0].Price)
		}
	})

	t.Run("brand mismatch", func(t *testing.T) {
		if _, err := decodeSnapshot(data, "other"); err == nil {
			t.Error("decodeSnapshot() expected error for another brand")
		}
	})

	t.Run("corrupt", func(t *testing.T) {
		if _, err := decodeSnapshot([]byte("{not json"), "acme"); err == nil {
			t.Error("decodeSnapshot() expected error")
		}
	})
}
