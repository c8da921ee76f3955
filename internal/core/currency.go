package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/pricebook/internal/pricing"
)

// ErrInvalidAmount is returned when a conversion amount is not a number.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrCurrenciesDisabled is returned when no currency store is configured.
var ErrCurrenciesDisabled = errors.New("currency conversion is not configured")

// Conversion is the result of one currency conversion.
type Conversion struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Converted decimal.Decimal `json:"converted"`
	Rate      decimal.Decimal `json:"rate"`
}

// Currencies lists the configured currencies with the base currency marked.
func (s *Service) Currencies(ctx context.Context) ([]pricing.Currency, error) {
	conv, list, err := s.converter(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Code, conv.Base()) {
			list[i].IsBase = true
			list[i].RateToBase = decimal.NewFromInt(1)
		}
	}
	return list, nil
}

// Convert converts an amount given as text between two configured currencies.
func (s *Service) Convert(ctx context.Context, amount, from, to string) (*Conversion, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	conv, _, err := s.converter(ctx)
	if err != nil {
		return nil, err
	}

	converted, err := conv.Convert(value, from, to)
	if err != nil {
		return nil, err
	}
	fromRate, _ := conv.Rate(from)
	toRate, _ := conv.Rate(to)

	return &Conversion{
		Amount:    value,
		From:      strings.ToUpper(strings.TrimSpace(from)),
		To:        strings.ToUpper(strings.TrimSpace(to)),
		Converted: converted,
		Rate:      toRate.Div(fromRate).Round(6),
	}, nil
}

// converter builds a converter from the rates currently stored.
func (s *Service) converter(ctx context.Context) (*pricing.Converter, []pricing.Currency, error) {
	if s.currencies == nil {
		return nil, nil, ErrCurrenciesDisabled
	}
	list, err := s.currencies.ListCurrencies(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list currencies: %w", err)
	}
	conv, err := pricing.NewConverter(s.baseCode, list)
	if err != nil {
		return nil, nil, err
	}
	return conv, list, nil
}
