package pricing

import (
	"errors"
	"reflect"
	"testing"
)

func testConverter(t *testing.T) *Converter {
	t.Helper()
	c, err := NewConverter("usd", []Currency{
		{Code: "EUR", RateToBase: dec("0.9")},
		{Code: "gbp", RateToBase: dec("0.8")},
		{Code: "USD", RateToBase: dec("42")}, // base is always 1
	})
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return c
}

func TestConverter_Convert(t *testing.T) {
	c := testConverter(t)

	tests := []struct {
		amount string
		from   string
		to     string
		want   string
	}{
		{"100", "USD", "EUR", "90"},
		{"90", "EUR", "USD", "100"},
		{"100", "EUR", "GBP", "88.89"},
		{"10", "usd", "usd", "10"},
		{"0", "GBP", "EUR", "0"},
		{"19.99", "USD", "GBP", "15.99"},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := c.Convert(dec(tt.amount), tt.from, tt.to)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Convert(%s, %s, %s) = %s, want %s", tt.amount, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestConverter_UnknownCurrency(t *testing.T) {
	c := testConverter(t)

	for _, code := range []string{"JPY", "XYZ1", ""} {
		if _, err := c.Convert(dec("1"), "USD", code); !errors.Is(err, ErrUnknownCurrency) {
			t.Errorf("Convert to %q error = %v, want ErrUnknownCurrency", code, err)
		}
	}
}

func TestConverter_Codes(t *testing.T) {
	c := testConverter(t)

	if got, want := c.Codes(), []string{"EUR", "GBP", "USD"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Codes() = %v, want %v", got, want)
	}
	if c.Base() != "USD" {
		t.Errorf("Base() = %q, want USD", c.Base())
	}
	if rate, _ := c.Rate("USD"); !rate.Equal(dec("1")) {
		t.Errorf("base rate = %s, want 1", rate)
	}
}

func TestNewConverter_InvalidRate(t *testing.T) {
	_, err := NewConverter("USD", []Currency{{Code: "EUR", RateToBase: dec("0")}})
	if !errors.Is(err, ErrInvalidRate) {
		t.Errorf("error = %v, want ErrInvalidRate", err)
	}
}
