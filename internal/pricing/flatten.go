package pricing

// Flatten projects the nested catalog into the export row sequence.
//
// For each product in order it emits a BasePriceRow followed by one
// OptionRow per priced option (groups and options in order). Options whose
// delta is nil or zero are omitted. Interior rows follow all products and
// are emitted regardless of price.
func Flatten(c Catalog) []PriceRow {
	rows := make([]PriceRow, 0, len(c.Products)+len(c.Interiors))

	for _, p := range c.Products {
		code := p.Code
		if code == "" {
			code = p.ID
		}
		rows = append(rows, BasePriceRow{
			ProductID:   p.ID,
			ProductName: p.Name,
			Code:        code,
			Price:       p.BasePrice,
		})

		for _, g := range p.Groups {
			for _, o := range g.Options {
				if !o.HasPrice() {
					continue
				}
				rows = append(rows, OptionRow{
					ProductID:   p.ID,
					ProductName: p.Name,
					GroupID:     g.ID,
					GroupName:   g.Name,
					OptionID:    o.ID,
					OptionName:  o.Name,
					Code:        o.Code,
					Price:       *o.PriceDelta,
				})
			}
		}
	}

	for _, in := range c.Interiors {
		rows = append(rows, InteriorRow{
			GroupName:  InteriorGroupName,
			OptionID:   in.ID,
			OptionName: in.Name,
			Code:       in.Code,
			Price:      in.Price,
		})
	}

	return rows
}
