package services

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencyPrinter = message.NewPrinter(language.BrazilianPortuguese)

// groupedThousands matches amounts written with dot grouping and no decimal
// part, e.g. "1.000" or "12.345.678"
var groupedThousands = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// ParseAmount normalizes a locale-formatted currency string into an exact
// decimal. Currency symbols and grouping separators are stripped and a comma
// decimal is converted to a point. Malformed or empty input parses to zero,
// never to an error: these values come from partially filled forms where a
// blank amount simply means no fee was declared.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.ReplaceAll(raw, "R$", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		// Brazilian form: dots group thousands, comma is the decimal mark
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case lastDot > lastComma:
		s = strings.ReplaceAll(s, ",", "")
		if groupedThousands.MatchString(s) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NormalizeAmount coerces the value shapes found in legacy rows (string,
// float, int) into a decimal. Anything else is zero.
func NormalizeAmount(raw interface{}) decimal.Decimal {
	switch v := raw.(type) {
	case string:
		return ParseAmount(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case decimal.Decimal:
		return v
	}
	return decimal.Zero
}

// FormatAmount renders a decimal as a pt-BR currency string with exactly two
// fraction digits. The round trip through FormatAmount/ParseAmount is lossy
// beyond two decimals; there are no sub-cent amounts in this domain.
func FormatAmount(value decimal.Decimal) string {
	return currencyPrinter.Sprintf("R$ %.2f", value.InexactFloat64())
}
