package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/iho/draftledger/internal/domain"
)

// Strategy names reported by Parse.
const (
	StrategyBracket = "bracket"
	StrategyFenced  = "fenced"
	StrategyWhole   = "whole"
	StrategyRegex   = "regex"

	// StrategyNone labels output that no strategy could decode.
	StrategyNone = "none"
)

const codeFence = "```"

// Strategy is one decode attempt over raw inference output. It returns a
// non-empty record list and true, or false if it could not decode anything.
type Strategy struct {
	Name   string
	Decode func(raw string) ([]domain.RawRecord, bool)
}

// DefaultStrategies is the ordered decode chain. Earlier strategies are
// cheaper and more precise; later ones are permissive and may over-match.
var DefaultStrategies = []Strategy{
	{Name: StrategyBracket, Decode: decodeBracketed},
	{Name: StrategyFenced, Decode: decodeFenced},
	{Name: StrategyWhole, Decode: decodeWhole},
	{Name: StrategyRegex, Decode: decodeRegexSalvage},
}

// Parser folds over an ordered strategy list and stops at the first success.
type Parser struct {
	strategies []Strategy
}

// NewParser creates a Parser. With no strategies it uses DefaultStrategies.
func NewParser(strategies ...Strategy) *Parser {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	return &Parser{strategies: strategies}
}

// Parse returns the records decoded by the first successful strategy and its
// name. ok is false when every strategy failed; that is not an error.
func (p *Parser) Parse(raw string) (records []domain.RawRecord, strategy string, ok bool) {
	for _, s := range p.strategies {
		if records, ok := s.Decode(raw); ok {
			return records, s.Name, true
		}
	}
	return nil, "", false
}

// decodeBracketed decodes the span from the first '[' to the last ']'.
func decodeBracketed(raw string) ([]domain.RawRecord, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		return nil, false
	}
	return decodeArray(raw[start : end+1])
}

// decodeFenced runs bracket extraction on the text between the first and last code fence.
func decodeFenced(raw string) ([]domain.RawRecord, bool) {
	first := strings.Index(raw, codeFence)
	last := strings.LastIndex(raw, codeFence)
	if first == -1 || last <= first {
		return nil, false
	}
	return decodeBracketed(raw[first+len(codeFence) : last])
}

// decodeWhole decodes the entire text as an array of objects or as an
// object with a "transactions" array.
func decodeWhole(raw string) ([]domain.RawRecord, bool) {
	trimmed := strings.TrimSpace(raw)
	if records, ok := decodeArray(trimmed); ok {
		return records, true
	}

	var envelope struct {
		Transactions []any `json:"transactions"`
	}
	if err := unmarshalNumbers(trimmed, &envelope); err != nil {
		return nil, false
	}
	return objectsOf(envelope.Transactions)
}

var bracketPattern = regexp.MustCompile(`(?s)\[.*\]`)

// decodeRegexSalvage applies the whole-text decode to the first greedy [ ... ] match.
func decodeRegexSalvage(raw string) ([]domain.RawRecord, bool) {
	match := bracketPattern.FindString(raw)
	if match == "" {
		return nil, false
	}
	return decodeWhole(match)
}

func decodeArray(s string) ([]domain.RawRecord, bool) {
	var items []any
	if err := unmarshalNumbers(s, &items); err != nil {
		return nil, false
	}
	return objectsOf(items)
}

// objectsOf keeps the object elements of a decoded array. Scalars and nested
// arrays are skipped.
func objectsOf(items []any) ([]domain.RawRecord, bool) {
	records := make([]domain.RawRecord, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, domain.RawRecord(obj))
		}
	}
	return records, len(records) > 0
}

var errTrailingData = errors.New("trailing data after JSON value")

// unmarshalNumbers decodes exactly one JSON value, using json.Number so
// amounts keep their exact digits.
func unmarshalNumbers(s string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
