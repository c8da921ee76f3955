package core

// scheduler.go runs background maintenance for the audit log.
//
// The purge job deletes entries older than the retention window in bounded
// batches so a large backlog never holds a long lock. It runs once at start
// and then on every tick until the context is cancelled. A failed run is
// logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// AuditRetention holds configuration for the purge scheduler.
type AuditRetention struct {
	RetentionDays int           // Days to keep entries (default: 90)
	BatchSize     int           // Rows per delete statement (default: 5000)
	Interval      time.Duration // How often to run (default: 24h)
}

func (r AuditRetention) withDefaults() AuditRetention {
	if r.RetentionDays <= 0 {
		r.RetentionDays = 90
	}
	if r.BatchSize <= 0 {
		r.BatchSize = 5000
	}
	if r.Interval <= 0 {
		r.Interval = 24 * time.Hour
	}
	return r
}

// RunAuditPurgeScheduler blocks, purging expired audit entries periodically
// until ctx is cancelled. It returns immediately when no audit store is set.
func (s *Service) RunAuditPurgeScheduler(ctx context.Context, cfg AuditRetention) {
	if s.audit == nil {
		return
	}
	cfg = cfg.withDefaults()

	slog.Info("audit purge scheduler started",
		"retention_days", cfg.RetentionDays,
		"batch_size", cfg.BatchSize,
		"interval", cfg.Interval,
	)

	s.PurgeAudit(ctx, cfg)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit purge scheduler stopped")
			return
		case <-ticker.C:
			s.PurgeAudit(ctx, cfg)
		}
	}
}

// PurgeAudit runs one purge cycle and returns the number of deleted entries.
func (s *Service) PurgeAudit(ctx context.Context, cfg AuditRetention) int64 {
	if s.audit == nil {
		return 0
	}
	cfg = cfg.withDefaults()

	start := time.Now()
	cutoff := s.now().AddDate(0, 0, -cfg.RetentionDays)

	var total int64
	for ctx.Err() == nil {
		n, err := s.audit.PurgeAudit(ctx, cutoff, cfg.BatchSize)
		if err != nil {
			slog.Error("audit purge failed", "error", err, "entries_purged", total)
			return total
		}
		total += n
		if n < int64(cfg.BatchSize) {
			break
		}
	}

	slog.Info("audit purge completed",
		"entries_purged", total,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return total
}
