package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	// ErrUnknownCurrency is returned when a currency has no configured rate.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInvalidRate is returned for non-positive exchange rates.
	ErrInvalidRate = errors.New("invalid exchange rate")
)

// Currency is a configured currency with its rate against the base currency.
// RateToBase is the number of units of this currency per one base unit.
type Currency struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	RateToBase decimal.Decimal `json:"rate_to_base"`
	IsBase     bool            `json:"is_base"`
}

// Converter converts amounts between configured currencies.
// It is immutable and safe for concurrent use.
type Converter struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewConverter builds a converter for the given base currency. The base
// currency always has rate 1, whatever the list says.
func NewConverter(base string, currencies []Currency) (*Converter, error) {
	baseCode, err := NormalizeCurrencyCode(base)
	if err != nil {
		return nil, fmt.Errorf("base currency: %w", err)
	}

	rates := map[string]decimal.Decimal{baseCode: decimal.NewFromInt(1)}
	for _, c := range currencies {
		code, err := NormalizeCurrencyCode(c.Code)
		if err != nil {
			return nil, err
		}
		if code == baseCode {
			continue
		}
		if !c.RateToBase.IsPositive() {
			return nil, fmt.Errorf("%w for %s: %s", ErrInvalidRate, code, c.RateToBase.String())
		}
		rates[code] = c.RateToBase
	}

	return &Converter{base: baseCode, rates: rates}, nil
}

// NormalizeCurrencyCode validates an ISO 4217 code and returns it upper-cased.
func NormalizeCurrencyCode(code string) (string, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return unit.String(), nil
}

// Base returns the base currency code.
func (c *Converter) Base() string {
	return c.base
}

// Codes returns the configured currency codes, sorted.
func (c *Converter) Codes() []string {
	codes := make([]string, 0, len(c.rates))
	for code := range c.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Rate returns the rate of code against the base currency.
func (c *Converter) Rate(code string) (decimal.Decimal, error) {
	norm, err := NormalizeCurrencyCode(code)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := c.rates[norm]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, norm)
	}
	return rate, nil
}

// Convert converts amount from one currency to another, rounded to cents.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fromRate, err := c.Rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := c.Rate(to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(toRate).Div(fromRate).Round(2), nil
}
