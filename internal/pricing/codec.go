package pricing

// codec.go implements the price exchange CSV format.
//
// The format is deliberately narrower than RFC 4180: records never span
// lines, and a field is quoted only when it contains a comma or a double
// quote. Parsing is lenient and never fails; see ParseRecords.

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one parsed data line keyed by lower-cased header name.
type Record map[string]string

// ParseResult is the outcome of parsing an exchange file into typed rows.
type ParseResult struct {
	Rows []PriceRow
	// Skipped counts records dropped because their type was not recognized
	// or a required identifier was empty.
	Skipped int
}

// Encode serializes rows as CSV text: the header line followed by one line
// per row, joined with "\n" and without a trailing newline.
func Encode(rows []PriceRow) string {
	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))

	for _, r := range rows {
		b.WriteByte('\n')
		f := r.fields()
		for i, v := range f {
			if i > 0 {
				b.WriteByte(',')
			}
			if i == colPrice {
				b.WriteString(v)
				continue
			}
			b.WriteString(quoteField(v))
		}
	}

	return b.String()
}

// quoteField wraps v in double quotes when it contains a comma or quote,
// doubling any inner quotes.
func quoteField(v string) string {
	if !strings.ContainsAny(v, `,"`) {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// ParseRecords parses CSV text into records keyed by lower-cased header
// names.
//
// Blank lines are ignored. Text with fewer than two non-blank lines yields
// no records. A line whose field count differs from the header's is
// dropped.
func ParseRecords(text string) []Record {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return []Record{}
	}

	header := splitLine(lines[0])
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitLine(line)
		if len(values) != len(header) {
			continue
		}
		rec := make(Record, len(header))
		for i, h := range header {
			rec[h] = values[i]
		}
		records = append(records, rec)
	}

	return records
}

// nonBlankLines splits text on newlines, dropping lines that are empty
// after trimming. A trailing carriage return is removed from each line.
func nonBlankLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// splitLine splits one CSV line into fields. A comma inside quotes does not
// split, a doubled quote inside quotes decodes to a single quote, and any
// other quote toggles the quoted state.
func splitLine(line string) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuote && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			inQuote = !inQuote
		case c == ',' && !inQuote:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())

	return fields
}

// Parse parses CSV text into typed price rows.
func Parse(text string) ParseResult {
	return Decode(ParseRecords(text))
}

// Decode converts records into typed rows in order. Records with an
// unrecognized type or a missing identifier are counted in Skipped.
func Decode(records []Record) ParseResult {
	res := ParseResult{Rows: make([]PriceRow, 0, len(records))}
	for _, rec := range records {
		row, ok := decodeRecord(rec)
		if !ok {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func decodeRecord(rec Record) (PriceRow, bool) {
	price := ParsePrice(rec["price"])

	switch Kind(rec["type"]) {
	case KindBasePrice:
		if rec["product_id"] == "" {
			return nil, false
		}
		return BasePriceRow{
			ProductID:   rec["product_id"],
			ProductName: rec["product_name"],
			Code:        rec["code"],
			Price:       price,
		}, true

	case KindOption:
		if rec["product_id"] == "" || rec["group_id"] == "" || rec["option_id"] == "" {
			return nil, false
		}
		return OptionRow{
			ProductID:   rec["product_id"],
			ProductName: rec["product_name"],
			GroupID:     rec["group_id"],
			GroupName:   rec["group_name"],
			OptionID:    rec["option_id"],
			OptionName:  rec["option_name"],
			Code:        rec["code"],
			Price:       price,
		}, true

	case KindInterior:
		if rec["option_id"] == "" {
			return nil, false
		}
		return InteriorRow{
			GroupName:  rec["group_name"],
			OptionID:   rec["option_id"],
			OptionName: rec["option_name"],
			Code:       rec["code"],
			Price:      price,
		}, true
	}

	return nil, false
}

// ParsePrice parses a decimal amount. Empty or non-numeric input yields zero.
func ParsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
