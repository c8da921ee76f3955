package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tags which catalog entity a price row updates.
type Kind string

const (
	KindBasePrice Kind = "BASE_PRICE"
	KindOption    Kind = "OPTION"
	KindInterior  Kind = "INTERIOR"
)

// Header is the fixed column order of the price exchange file.
var Header = []string{
	"type",
	"product_id",
	"product_name",
	"group_id",
	"group_name",
	"option_id",
	"option_name",
	"code",
	"price",
}

// Column positions within Header.
const (
	colType = iota
	colProductID
	colProductName
	colGroupID
	colGroupName
	colOptionID
	colOptionName
	colCode
	colPrice
	columnCount
)

// PriceRow is one priceable unit of the exchange file.
// It is implemented by BasePriceRow, OptionRow and InteriorRow only.
type PriceRow interface {
	Kind() Kind
	// Amount returns the row's price, the only value an import applies.
	Amount() decimal.Decimal
	fields() [columnCount]string
}

// BasePriceRow carries a product's base price.
type BasePriceRow struct {
	ProductID   string
	ProductName string
	Code        string
	Price       decimal.Decimal
}

// OptionRow carries the price delta of one option within a product group.
type OptionRow struct {
	ProductID   string
	ProductName string
	GroupID     string
	GroupName   string
	OptionID    string
	OptionName  string
	Code        string
	Price       decimal.Decimal
}

// InteriorRow carries the price of a drawer interior.
type InteriorRow struct {
	GroupName  string
	OptionID   string
	OptionName string
	Code       string
	Price      decimal.Decimal
}

func (BasePriceRow) Kind() Kind { return KindBasePrice }
func (OptionRow) Kind() Kind { return KindOption }
func (InteriorRow) Kind() Kind { return KindInterior }

func (r BasePriceRow) Amount() decimal.Decimal { return r.Price }
func (r OptionRow) Amount() decimal.Decimal { return r.Price }
func (r InteriorRow) Amount() decimal.Decimal { return r.Price }

func (r BasePriceRow) fields() [columnCount]string {
	var f [columnCount]string
	f[colType] = string(KindBasePrice)
	f[colProductID] = r.ProductID
	f[colProductName] = r.ProductName
	f[colCode] = r.Code
	f[colPrice] = formatPrice(r.Price)
	return f
}

func (r OptionRow) fields() [columnCount]string {
	var f [columnCount]string
	f[colType] = string(KindOption)
	f[colProductID] = r.ProductID
	f[colProductName] = r.ProductName
	f[colGroupID] = r.GroupID
	f[colGroupName] = r.GroupName
	f[colOptionID] = r.OptionID
	f[colOptionName] = r.OptionName
	f[colCode] = r.Code
	f[colPrice] = formatPrice(r.Price)
	return f
}

func (r InteriorRow) fields() [columnCount]string {
	var f [columnCount]string
	f[colType] = string(KindInterior)
	f[colGroupName] = r.GroupName
	f[colOptionID] = r.OptionID
	f[colOptionName] = r.OptionName
	f[colCode] = r.Code
	f[colPrice] = formatPrice(r.Price)
	return f
}

// Fields returns the row's values in Header order, price formatted for export.
func Fields(r PriceRow) []string {
	f := r.fields()
	return f[:]
}

// formatPrice renders a monetary amount with at least two decimals. Finer
// amounts keep every significant digit so a re-import reads the same value.
func formatPrice(d decimal.Decimal) string {
	s := d.String()
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
		return s
	}
	return d.StringFixed(2)
}
