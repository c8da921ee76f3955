package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/pricebook/internal/logging"
	"github.com/JonMunkholm/pricebook/internal/pricing"
)

// DefaultImportTimeout bounds one import run when no timeout is configured.
const DefaultImportTimeout = 5 * time.Minute

// SnapshotCache holds recently loaded catalog snapshots.
type SnapshotCache interface {
	GetCatalog(ctx context.Context, brand string) (pricing.Catalog, bool, error)
	SetCatalog(ctx context.Context, c pricing.Catalog) error
	Invalidate(ctx context.Context, brand string) error
}

// CurrencyStore lists the configured currencies and their rates.
type CurrencyStore interface {
	ListCurrencies(ctx context.Context) ([]pricing.Currency, error)
}

// FileArchive keeps a copy of every exported and imported price file.
type FileArchive interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// EventPublisher announces applied price changes to other services.
type EventPublisher interface {
	PublishPriceChanges(ctx context.Context, batch PriceChangeBatch) error
}

// PriceChangeBatch is the set of changes applied by one import.
type PriceChangeBatch struct {
	ImportID   string
	Brand      string
	Changes    []pricing.Change
	OccurredAt time.Time
}

// Service coordinates price exports and imports over the catalog store and
// the optional cache, archive, event and audit backends.
type Service struct {
	catalog    pricing.Gateway
	currencies CurrencyStore
	baseCode   string
	limiter    *ImportLimiter

	cache   SnapshotCache
	archive FileArchive
	events  EventPublisher
	audit   AuditStore

	importTimeout time.Duration
	now           func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCurrencies enables the converter with rates relative to base.
func WithCurrencies(store CurrencyStore, base string) Option {
	return func(s *Service) {
		s.currencies = store
		s.baseCode = base
	}
}

// WithLimiter replaces the default import limiter.
func WithLimiter(l *ImportLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithImportTimeout bounds each import run.
func WithImportTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.importTimeout = d
		}
	}
}

func WithCache(c SnapshotCache) Option      { return func(s *Service) { s.cache = c } }
func WithArchive(a FileArchive) Option      { return func(s *Service) { s.archive = a } }
func WithEvents(p EventPublisher) Option    { return func(s *Service) { s.events = p } }
func WithAudit(a AuditStore) Option         { return func(s *Service) { s.audit = a } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates a Service over the given catalog store.
func NewService(catalog pricing.Gateway, opts ...Option) *Service {
	s := &Service{
		catalog:       catalog,
		baseCode:      "USD",
		importTimeout: DefaultImportTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = NewImportLimiter(DefaultMaxConcurrentImports, DefaultMaxWaitTime)
	}
	return s
}

// ImportStatus returns the import limiter state.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Rows returns the flattened price rows of a brand, as an export would write them.
func (s *Service) Rows(ctx context.Context, brand string) ([]pricing.PriceRow, error) {
	snapshot, err := s.snapshot(ctx, brand)
	if err != nil {
		return nil, err
	}
	return pricing.Flatten(snapshot), nil
}

// snapshot loads a brand's catalog, through the cache when one is set.
// Cache failures degrade to a direct store read.
func (s *Service) snapshot(ctx context.Context, brand string) (pricing.Catalog, error) {
	logger := logging.FromContext(ctx)

	if s.cache != nil {
		c, ok, err := s.cache.GetCatalog(ctx, brand)
		if err != nil {
			logger.Warn("catalog cache read failed", "brand", brand, "error", err)
		} else if ok {
			return c, nil
		}
	}

	c, err := s.catalog.GetCatalog(ctx, brand)
	if err != nil {
		return pricing.Catalog{}, fmt.Errorf("load catalog %s: %w", brand, err)
	}

	if s.cache != nil {
		if err := s.cache.SetCatalog(ctx, c); err != nil {
			logger.Warn("catalog cache write failed", "brand", brand, "error", err)
		}
	}
	return c, nil
}

// archiveFile stores a copy of a file. Failures are logged only.
func (s *Service) archiveFile(ctx context.Context, key, contentType string, data []byte) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Put(ctx, key, contentType, data); err != nil {
		logging.FromContext(ctx).Warn("price file archive failed", "key", key, "error", err)
	}
}
