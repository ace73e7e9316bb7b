package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrNoteTooLong     = errors.New("note exceeds maximum length")
	ErrInvalidDate     = errors.New("invalid draft date")
)

// Validation constants
const (
	MaxDraftAmount = "1000000000000" // 1 trillion
	MaxNoteLength  = 500
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
	"AED": true, "KES": true, "NGN": true, "PKR": true,
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAmount validates a draft amount. Zero and negative amounts are never valid.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxDraftAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxDraftAmount)
	}

	return nil
}

// ValidateNote validates an optional note.
func ValidateNote(note *string) error {
	if note == nil {
		return nil
	}

	if utf8.RuneCountInString(*note) > MaxNoteLength {
		return fmt.Errorf("%w: note exceeds %d characters", ErrNoteTooLong, MaxNoteLength)
	}

	return nil
}

// ValidateDraft validates a user-reviewed draft before it is committed.
func ValidateDraft(d DraftTransaction) error {
	if err := ValidateAmount(d.Amount); err != nil {
		return err
	}

	if err := ValidateNote(d.Note); err != nil {
		return err
	}

	if d.Date.IsZero() {
		return ErrInvalidDate
	}

	return nil
}
