package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"45.99", "1234.5", "0.01", "1000000"} {
		t.Run(s, func(t *testing.T) {
			d := decimal.RequireFromString(s)
			n := decimalToNumeric(d)
			require.True(t, n.Valid)
			assert.True(t, numericToDecimal(n).Equal(d), "got %s", numericToDecimal(n))
		})
	}
}

func TestNumericToDecimalInvalid(t *testing.T) {
	assert.True(t, numericToDecimal(decimalToNumeric(decimal.Zero)).IsZero())
	n := decimalToNumeric(decimal.Zero)
	n.Valid = false
	assert.True(t, numericToDecimal(n).IsZero())
}

func TestTextConversions(t *testing.T) {
	assert.False(t, stringPtrToText(nil).Valid)

	note := "Lunch"
	txt := stringPtrToText(&note)
	require.True(t, txt.Valid)
	assert.Equal(t, &note, textToStringPtr(txt))
	assert.Nil(t, textToStringPtr(stringToText("")))

	ts := timeToPgTimestamptz(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	assert.True(t, ts.Valid)
}
