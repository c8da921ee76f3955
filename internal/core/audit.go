package core

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/pricebook/internal/logging"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionPriceImport       AuditAction = "price_import"
	ActionPriceImportDryRun AuditAction = "price_import_dry_run"
	ActionPriceExport       AuditAction = "price_export"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// AuditEntry is one row of the audit log.
type AuditEntry struct {
	ID            string        `json:"id"`
	Action        AuditAction   `json:"action"`
	Severity      AuditSeverity `json:"severity"`
	Brand         string        `json:"brand"`
	ImportID      string        `json:"import_id,omitempty"`
	FileName      string        `json:"file_name,omitempty"`
	Format        string        `json:"format,omitempty"`
	RowsTotal     int           `json:"rows_total"`
	RowsSucceeded int           `json:"rows_succeeded"`
	RowsUnchanged int           `json:"rows_unchanged"`
	RowsSkipped   int           `json:"rows_skipped"`
	ErrorCount    int           `json:"error_count"`
	IPAddress     string        `json:"ip_address,omitempty"`
	UserAgent     string        `json:"user_agent,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// AuditStore persists audit entries.
type AuditStore interface {
	InsertAudit(ctx context.Context, entry AuditEntry) error
	// PurgeAudit deletes up to limit entries created before cutoff and
	// returns how many were deleted.
	PurgeAudit(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

// determineSeverity returns the appropriate severity for an action.
// An import that reported row errors is raised to high.
func determineSeverity(entry AuditEntry) AuditSeverity {
	switch entry.Action {
	case ActionPriceImport:
		if entry.ErrorCount > 0 {
			return SeverityHigh
		}
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// logAudit fills in id, severity, client details and timestamp, then stores
// the entry. Audit failures are logged and never fail the operation.
func (s *Service) logAudit(ctx context.Context, entry AuditEntry) {
	if s.audit == nil {
		return
	}

	meta := RequestMetaFromContext(ctx)
	entry.ID = uuid.NewString()
	entry.Severity = determineSeverity(entry)
	entry.IPAddress = meta.IPAddress
	entry.UserAgent = meta.UserAgent
	entry.CreatedAt = s.now().UTC()

	// Written even when the import context has expired.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.audit.InsertAudit(storeCtx, entry); err != nil {
		logging.FromContext(ctx).Warn("audit log write failed",
			"action", entry.Action,
			"brand", entry.Brand,
			"error", err,
		)
	}
}
