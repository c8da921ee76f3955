package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrBrandNotFound is returned by a Gateway that has no catalog for a brand.
var ErrBrandNotFound = errors.New("brand not found")

// InteriorGroupName is the display group written on interior rows.
const InteriorGroupName = "Drawer Interiors"

// Catalog is a point-in-time snapshot of one brand's priceable entities.
type Catalog struct {
	Brand     string     `json:"brand"`
	Products  []Product  `json:"products"`
	Interiors []Interior `json:"interiors"`
}

// Product is a configurable product with its option groups.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code,omitempty"`
	BasePrice decimal.Decimal `json:"base_price"`
	Groups    []OptionGroup   `json:"groups"`
}

// OptionGroup is an ordered set of options within a product (e.g. "Finish").
type OptionGroup struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Option is a selectable choice. PriceDelta is added to the product's base
// price when the option is selected; nil means the option has no price effect.
type Option struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Code       string           `json:"code,omitempty"`
	PriceDelta *decimal.Decimal `json:"price_delta,omitempty"`
}

// Interior is a drawer interior option priced independently of products.
type Interior struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Code  string          `json:"code,omitempty"`
	Price decimal.Decimal `json:"price"`
}

// HasPrice reports whether the option contributes a non-zero price delta.
func (o Option) HasPrice() bool {
	return o.PriceDelta != nil && !o.PriceDelta.IsZero()
}

// Clone returns a deep copy of the catalog. Mutating the copy never affects c.
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Brand:     c.Brand,
		Products:  make([]Product, len(c.Products)),
		Interiors: make([]Interior, len(c.Interiors)),
	}
	for i, p := range c.Products {
		out.Products[i] = p.Clone()
	}
	copy(out.Interiors, c.Interiors)
	return out
}

// Clone returns a deep copy of the product including its groups and options.
func (p Product) Clone() Product {
	out := p
	out.Groups = make([]OptionGroup, len(p.Groups))
	for i, g := range p.Groups {
		ng := g
		ng.Options = make([]Option, len(g.Options))
		for j, o := range g.Options {
			no := o
			if o.PriceDelta != nil {
				d := *o.PriceDelta
				no.PriceDelta = &d
			}
			ng.Options[j] = no
		}
		out.Groups[i] = ng
	}
	return out
}

// productIndex returns the position of the product with the given id, or -1.
func (c Catalog) productIndex(id string) int {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// interiorIndex returns the position of the interior with the given id, or -1.
func (c Catalog) interiorIndex(id string) int {
	for i := range c.Interiors {
		if c.Interiors[i].ID == id {
			return i
		}
	}
	return -1
}

// groupIndex returns the position of the group with the given id, or -1.
func (p Product) groupIndex(id string) int {
	for i := range p.Groups {
		if p.Groups[i].ID == id {
			return i
		}
	}
	return -1
}

// optionIndex returns the position of the option with the given id, or -1.
func (g OptionGroup) optionIndex(id string) int {
	for i := range g.Options {
		if g.Options[i].ID == id {
			return i
		}
	}
	return -1
}
