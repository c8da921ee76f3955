package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/pricebook/internal/pricing"
)

// CatalogRepo reads brand catalogs and writes updated prices back.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

// NewCatalogRepo creates a CatalogRepo over pool.
func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

var _ pricing.Gateway = (*CatalogRepo)(nil)

// GetCatalog loads the products and drawer interiors of a brand in display
// order. It returns pricing.ErrBrandNotFound for unknown brands.
func (r *CatalogRepo) GetCatalog(ctx context.Context, brand string) (pricing.Catalog, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM brands WHERE slug = $1)`, brand).Scan(&exists)
	if err != nil {
		return pricing.Catalog{}, fmt.Errorf("lookup brand: %w", err)
	}
	if !exists {
		return pricing.Catalog{}, fmt.Errorf("%w: %s", pricing.ErrBrandNotFound, brand)
	}

	products, err := r.products(ctx, brand)
	if err != nil {
		return pricing.Catalog{}, err
	}
	interiors, err := r.interiors(ctx, brand)
	if err != nil {
		return pricing.Catalog{}, err
	}

	return pricing.Catalog{Brand: brand, Products: products, Interiors: interiors}, nil
}

func (r *CatalogRepo) products(ctx context.Context, brand string) ([]pricing.Product, error) {
	const query = `
		SELECT id, name, code, base_price::text, option_groups
		FROM products
		WHERE brand = $1
		ORDER BY position, id`

	rows, err := r.pool.Query(ctx, query, brand)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]pricing.Product, 0)
	for rows.Next() {
		var (
			p      pricing.Product
			price  string
			groups []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &price, &groups); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if p.BasePrice, err = parseAmount(price); err != nil {
			return nil, fmt.Errorf("product %s base price: %w", p.ID, err)
		}
		if p.Groups, err = decodeGroups(groups); err != nil {
			return nil, fmt.Errorf("product %s option groups: %w", p.ID, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return products, nil
}

func (r *CatalogRepo) interiors(ctx context.Context, brand string) ([]pricing.Interior, error) {
	const query = `
		SELECT id, name, code, price::text
		FROM drawer_interiors
		WHERE brand = $1
		ORDER BY position, id`

	rows, err := r.pool.Query(ctx, query, brand)
	if err != nil {
		return nil, fmt.Errorf("query interiors: %w", err)
	}
	defer rows.Close()

	interiors := make([]pricing.Interior, 0)
	for rows.Next() {
		var (
			in    pricing.Interior
			price string
		)
		if err := rows.Scan(&in.ID, &in.Name, &in.Code, &price); err != nil {
			return nil, fmt.Errorf("scan interior: %w", err)
		}
		if in.Price, err = parseAmount(price); err != nil {
			return nil, fmt.Errorf("interior %s price: %w", in.ID, err)
		}
		interiors = append(interiors, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read interiors: %w", err)
	}
	return interiors, nil
}

// UpdateProduct stores the product's base price and option groups.
func (r *CatalogRepo) UpdateProduct(ctx context.Context, p pricing.Product) error {
	groups, err := encodeGroups(p.Groups)
	if err != nil {
		return fmt.Errorf("encode option groups: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET base_price = $2::numeric, option_groups = $3, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.BasePrice.StringFixed(2), groups,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s no longer exists", p.ID)
	}
	return nil
}

// UpdateInterior stores the interior's price.
func (r *CatalogRepo) UpdateInterior(ctx context.Context, in pricing.Interior) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE drawer_interiors
		SET price = $2::numeric, updated_at = NOW()
		WHERE id = $1`,
		in.ID, in.Price.StringFixed(2),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("interior %s no longer exists", in.ID)
	}
	return nil
}

// parseAmount converts a numeric column read as text.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// decodeGroups reads the option_groups JSON document. NULL and empty
// documents yield no groups.
func decodeGroups(raw []byte) ([]pricing.OptionGroup, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []pricing.OptionGroup{}, nil
	}
	var groups []pricing.OptionGroup
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []pricing.OptionGroup{}
	}
	return groups, nil
}

func encodeGroups(groups []pricing.OptionGroup) ([]byte, error) {
	if groups == nil {
		groups = []pricing.OptionGroup{}
	}
	return json.Marshal(groups)
}

