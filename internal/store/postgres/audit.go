package postgres

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/pricebook/internal/core"
)

// AuditRepo writes and purges audit log entries.
type AuditRepo struct {
	pool *pgxpool.Pool
}

// NewAuditRepo creates an AuditRepo over pool.
func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

var _ core.AuditStore = (*AuditRepo)(nil)

// InsertAudit stores one audit entry.
func (r *AuditRepo) InsertAudit(ctx context.Context, e core.AuditEntry) error {
	const query = `
		INSERT INTO audit_log (
			id, action, severity, brand, import_id, file_name, format,
			rows_total, rows_succeeded, rows_unchanged, rows_skipped, error_count,
			ip_address, user_agent, created_at
		) VALUES (
			$1, $2, $3, $4, NULLIF($5::text, '')::uuid, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15
		)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, string(e.Action), string(e.Severity), e.Brand, e.ImportID, e.FileName, e.Format,
		e.RowsTotal, e.RowsSucceeded, e.RowsUnchanged, e.RowsSkipped, e.ErrorCount,
		clientAddr(e.IPAddress), e.UserAgent, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// PurgeAudit deletes up to limit entries older than cutoff, oldest first.
func (r *AuditRepo) PurgeAudit(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM audit_log
		WHERE id IN (
			SELECT id FROM audit_log
			WHERE created_at < $1
			ORDER BY created_at
			LIMIT $2
		)`, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("purge audit log: %w", err)
	}
	return tag.RowsAffected(), nil
}

// clientAddr parses a remote address, with or without port, for the inet
// column. Unparseable values are stored as NULL.
func clientAddr(s string) *netip.Addr {
	if s == "" {
		return nil
	}
	host := s
	if h, _, err := net.SplitHostPort(s); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil
	}
	return &addr
}
