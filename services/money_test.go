package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmountBrazilianFormats(t *testing.T) {
	cases := map[string]string{
		"R$ 1.000,00":     "1000",
		"R$ 1.234,56":     "1234.56",
		"1.234,56":        "1234.56",
		"0,5":             "0.5",
		"250,00":          "250",
		" R$  12.345,67 ": "12345.67",
		"-1.000,00":       "-1000",
	}
	for raw, expected := range cases {
		want, _ := decimal.NewFromString(expected)
		assert.True(t, ParseAmount(raw).Equal(want), "ParseAmount(%q) = %s, want %s", raw, ParseAmount(raw), want)
	}
}

func TestParseAmountPointDecimal(t *testing.T) {
	assert.True(t, ParseAmount("1000.50").Equal(decimal.NewFromFloat(1000.50)))
	assert.True(t, ParseAmount("1,000.50").Equal(decimal.NewFromFloat(1000.50)))
	// Dot-grouped thousands with no decimal part
	assert.True(t, ParseAmount("1.000").Equal(decimal.NewFromInt(1000)))
	assert.True(t, ParseAmount("12.345.678").Equal(decimal.NewFromInt(12345678)))
}

func TestParseAmountMalformedIsZero(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "R$", "R$ --", "1.2.3,4,5"} {
		assert.True(t, ParseAmount(raw).IsZero(), "ParseAmount(%q) should be zero", raw)
	}
}

func TestNormalizeAmountShapes(t *testing.T) {
	assert.True(t, NormalizeAmount("R$ 100,00").Equal(decimal.NewFromInt(100)))
	assert.True(t, NormalizeAmount(100.5).Equal(decimal.NewFromFloat(100.5)))
	assert.True(t, NormalizeAmount(100).Equal(decimal.NewFromInt(100)))
	assert.True(t, NormalizeAmount(int64(7)).Equal(decimal.NewFromInt(7)))
	assert.True(t, NormalizeAmount(nil).IsZero())
	assert.True(t, NormalizeAmount([]string{"x"}).IsZero())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", FormatAmount(decimal.NewFromFloat(1234.56)))
	assert.Equal(t, "R$ 10,00", FormatAmount(decimal.NewFromInt(10)))
	assert.Equal(t, "R$ 0,00", FormatAmount(decimal.Zero))
}

func TestFormatParseRoundTripToTheCent(t *testing.T) {
	// The round trip is only guaranteed to two decimals; sub-cent detail
	// is dropped by design
	value := decimal.NewFromFloat(1234.5678)
	assert.True(t, ParseAmount(FormatAmount(value)).Equal(decimal.NewFromFloat(1234.57)))
}
