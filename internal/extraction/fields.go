package extraction

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// The field tables below are the heuristics for mapping loosely-named model
// output onto draft fields. Order is priority: the first field that coerces wins.

type amountField struct {
	name   string
	coerce func(v any) (decimal.Decimal, bool)
}

var amountFields = []amountField{
	{name: "amount", coerce: coerceAmount},
	{name: "debit", coerce: coerceAmount},
	{name: "credit", coerce: coerceAmount},
	{name: "value", coerce: coerceAmount},
}

type boolField struct {
	name   string
	coerce func(v any) (bool, bool)
}

var directionFields = []boolField{
	{name: "isExpense", coerce: coerceBool},
	{name: "is_expense", coerce: coerceBool},
	{name: "expense", coerce: coerceBool},
}

// Type fields are matched against the direction vocabulary.
var typeFields = []string{"type", "transactionType"}

var (
	expenseKeywords = []string{"expense", "debit", "withdrawal", "payment"}
	incomeKeywords  = []string{"income", "credit", "deposit", "salary"}
)

var noteFields = []string{"note", "description", "desc", "memo", "narration", "particulars"}

var categoryFields = []string{"category"}

var dateFields = []string{"date", "transactionDate", "txnDate", "valueDate"}

// ISO-8601 layouts come first, then the common calendar formats in priority order.
// 01/02/2006 is tried before 02/01/2006, so ambiguous days read month-first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"01-02-2006",
	"02-01-2006",
}

// coerceAmount accepts JSON numbers and strings such as "₹1,234.50" or "$50".
func coerceAmount(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case string:
		return parseMoney(t)
	default:
		return decimal.Zero, false
	}
}

// parseMoney strips currency symbols, thousands separators and any other
// character except digits, the decimal point and a leading minus. A dot is
// kept only inside the number or directly before its first digit, so the dot
// of an abbreviation such as "Rs." is dropped.
func parseMoney(s string) (decimal.Decimal, bool) {
	runes := []rune(strings.TrimSpace(s))

	var b strings.Builder
	digits := false
	for i, r := range runes {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits = true
		case r == '.':
			next := i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9'
			prevLetter := i > 0 && unicode.IsLetter(runes[i-1])
			if digits || (next && !prevLetter) {
				b.WriteRune(r)
			}
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	default:
		return false, false
	}
}

// coerceString returns the trimmed string value, or false when it is not a
// string or is blank.
func coerceString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// classify reports (isExpense, matched) for text against the direction vocabulary.
// Expense keywords are checked first.
func classify(text string) (bool, bool) {
	text = strings.ToLower(text)
	for _, kw := range expenseKeywords {
		if strings.Contains(text, kw) {
			return true, true
		}
	}
	for _, kw := range incomeKeywords {
		if strings.Contains(text, kw) {
			return false, true
		}
	}
	return false, false
}
