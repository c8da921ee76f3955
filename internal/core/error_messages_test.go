package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/pricebook/internal/pricing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"not csv", ErrNotCSV, "FILE002"},
		{"empty file", fmt.Errorf("import acme: %w", ErrEmptyFile), "FILE003"},
		{"too large", ErrFileTooLarge, "FILE001"},
		{"format", fmt.Errorf("%w %q", ErrUnsupportedFormat, "pdf"), "FILE006"},
		{"busy", ErrTooManyImports, "IMP001"},
		{"cancelled", context.Canceled, "IMP002"},
		{"deadline wins over timeout", fmt.Errorf("query: %w (timeout)", context.DeadlineExceeded), "IMP003"},
		{"brand", pricing.ErrBrandNotFound, "IMP004"},
		{"unknown currency", fmt.Errorf("%w: JPY", pricing.ErrUnknownCurrency), "CUR001"},
		{"invalid amount", ErrInvalidAmount, "CUR002"},
		{"invalid rate", pricing.ErrInvalidRate, "CUR003"},
		{"conversion disabled", ErrCurrenciesDisabled, "CUR004"},
		{"connection refused", errors.New("dial tcp 10.0.0.1:5432: connection refused"), "DB001"},
		{"plain timeout", errors.New("i/o timeout"), "DB003"},
		{"check constraint", errors.New(`new row violates check constraint "products_base_price_check"`), "DB005"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"case insensitive", errors.New("CONNECTION REFUSED"), "DB001"},
		{"unknown", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err); got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrTooManyImports)
	want := "Too many imports in progress (Code: IMP001). Please wait a moment and try again"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrNotCSV, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("import: %w", ErrEmptyFile)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The uploaded file is empty" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrEmptyFile) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
