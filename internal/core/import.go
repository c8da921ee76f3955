package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/pricebook/internal/logging"
	"github.com/JonMunkholm/pricebook/internal/metrics"
	"github.com/JonMunkholm/pricebook/internal/pricing"
)

// ImportRequest is one uploaded price file.
type ImportRequest struct {
	Brand    string
	FileName string
	Data     []byte
	// DryRun reconciles against the catalog without persisting anything.
	DryRun bool
}

// ImportResult is the outcome of one import run.
type ImportResult struct {
	ImportID     string           `json:"import_id"`
	Brand        string           `json:"brand"`
	DryRun       bool             `json:"dry_run"`
	SuccessCount int              `json:"success_count"`
	Errors       []string         `json:"errors"`
	Unchanged    int              `json:"unchanged"`
	Skipped      int              `json:"skipped"`
	Changes      []pricing.Change `json:"changes,omitempty"`
}

// FailedImport is the result reported when a file cannot be processed at
// all: the single error message and no successes.
func FailedImport(brand string, err error) *ImportResult {
	return &ImportResult{
		Brand:  brand,
		Errors: []string{FormatUserError(err)},
	}
}

// discardPersister accepts every write without storing it.
type discardPersister struct{}

func (discardPersister) UpdateProduct(context.Context, pricing.Product) error   { return nil }
func (discardPersister) UpdateInterior(context.Context, pricing.Interior) error { return nil }

// Import applies an uploaded price file to the brand's catalog.
//
// The file is decoded, parsed and reconciled row by row against a fresh
// snapshot read straight from the store. Row-level problems end up in
// ImportResult.Errors; the returned error is reserved for failures that
// prevent the run (wrong file type, busy limiter, unreadable catalog).
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if err := CheckImportFileName(req.FileName); err != nil {
		return nil, err
	}
	if len(req.Data) == 0 {
		return nil, ErrEmptyFile
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	importID := uuid.NewString()
	logger := logging.WithFields(ctx,
		"import_id", importID,
		"brand", req.Brand,
		"file", filepath.Base(req.FileName),
		"dry_run", req.DryRun,
	)
	start := time.Now()
	logger.Info("price import started", "bytes", len(req.Data))

	text, err := DecodeImportText(req.Data)
	if err != nil {
		return nil, err
	}
	parsed := pricing.Parse(text)

	snapshot, err := s.catalog.GetCatalog(ctx, req.Brand)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", req.Brand, err)
	}

	var store pricing.Persister = s.catalog
	if req.DryRun {
		store = discardPersister{}
	}

	var changes []pricing.Change
	report, _ := pricing.Reconcile(ctx, parsed.Rows, snapshot, store,
		pricing.OnChange(func(c pricing.Change) { changes = append(changes, c) }),
	)
	report.Skipped = parsed.Skipped

	result := &ImportResult{
		ImportID:     importID,
		Brand:        req.Brand,
		DryRun:       req.DryRun,
		SuccessCount: report.SuccessCount,
		Errors:       report.Errors,
		Unchanged:    report.Unchanged,
		Skipped:      report.Skipped,
		Changes:      changes,
	}

	duration := time.Since(start)
	logger.Info("price import finished",
		"rows", len(parsed.Rows),
		"succeeded", report.SuccessCount,
		"failed", len(report.Errors),
		"unchanged", report.Unchanged,
		"skipped", report.Skipped,
		"duration_ms", duration.Milliseconds(),
	)
	metrics.RecordImport(req.Brand, req.DryRun, metrics.ImportOutcome{
		Succeeded: report.SuccessCount,
		Failed:    len(report.Errors),
		Unchanged: report.Unchanged,
		Skipped:   report.Skipped,
	}, duration)

	action := ActionPriceImportDryRun
	if !req.DryRun {
		action = ActionPriceImport
		s.afterImport(ctx, result)
	}
	s.logAudit(ctx, AuditEntry{
		Action:        action,
		Brand:         req.Brand,
		ImportID:      importID,
		FileName:      filepath.Base(req.FileName),
		Format:        string(FormatCSV),
		RowsTotal:     len(parsed.Rows) + parsed.Skipped,
		RowsSucceeded: report.SuccessCount,
		RowsUnchanged: report.Unchanged,
		RowsSkipped:   report.Skipped,
		ErrorCount:    len(report.Errors),
	})
	s.archiveFile(ctx,
		fmt.Sprintf("imports/%s/%s/%s", req.Brand, importID, filepath.Base(req.FileName)),
		ContentTypeCSV, req.Data)

	return result, nil
}

// afterImport drops the cached snapshot and announces the applied changes.
// Neither step can fail the import: the prices are already stored.
func (s *Service) afterImport(ctx context.Context, result *ImportResult) {
	if result.SuccessCount == 0 {
		return
	}
	logger := logging.WithFields(ctx, "import_id", result.ImportID, "brand", result.Brand)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, result.Brand); err != nil {
			logger.Warn("catalog cache invalidation failed", "error", err)
		}
	}

	if s.events != nil {
		batch := PriceChangeBatch{
			ImportID:   result.ImportID,
			Brand:      result.Brand,
			Changes:    result.Changes,
			OccurredAt: s.now().UTC(),
		}
		if err := s.events.PublishPriceChanges(ctx, batch); err != nil {
			logger.Error("price change events not published", "changes", len(result.Changes), "error", err)
		}
	}
}
