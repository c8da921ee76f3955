package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/pricebook/internal/pricing"
)

// CurrencyRepo reads configured currencies and their exchange rates.
type CurrencyRepo struct {
	pool *pgxpool.Pool
}

// NewCurrencyRepo creates a CurrencyRepo over pool.
func NewCurrencyRepo(pool *pgxpool.Pool) *CurrencyRepo {
	return &CurrencyRepo{pool: pool}
}

// ListCurrencies returns all currencies ordered by code.
func (r *CurrencyRepo) ListCurrencies(ctx context.Context) ([]pricing.Currency, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, name, rate_to_base::text FROM currencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("query currencies: %w", err)
	}
	defer rows.Close()

	currencies := make([]pricing.Currency, 0)
	for rows.Next() {
		var (
			c    pricing.Currency
			rate string
		)
		if err := rows.Scan(&c.Code, &c.Name, &rate); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		c.Code = strings.TrimSpace(c.Code)
		if c.RateToBase, err = parseAmount(rate); err != nil {
			return nil, fmt.Errorf("currency %s rate: %w", c.Code, err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read currencies: %w", err)
	}
	return currencies, nil
}
