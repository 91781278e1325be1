package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount tokens in the decimal-comma locale convention: "1.234,56" and
// "49,50". The thousands separator is the period, the decimal separator
// the comma.
var (
	decimalAmountRe = regexp.MustCompile(`\b\d{1,3}(?:\.\d{3})*,\d{2}\b`)
	percentRe       = regexp.MustCompile(`\b\d{1,2}(?:[.,]\d{1,2})?\s?%`)
	currencyTokenRe = regexp.MustCompile(`€|\$|£|(?i:\bEUR\b|\bUSD\b|\bGBP\b)`)
)

// parseAmount converts a decimal-comma amount token ("1.234,56") into a
// decimal. A token that superficially matched the amount shape but does
// not parse is reported as an error; callers treat that as absence.
func parseAmount(tok string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(tok)
	cleaned = currencyTokenRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a parseable amount: %q", tok)
	}
	return d, nil
}

// lineAmounts collects every decimal amount token on a line, in order.
// Tokens that fail numeric conversion are skipped, not fatal.
func lineAmounts(line string) []decimal.Decimal {
	var out []decimal.Decimal
	for _, tok := range decimalAmountRe.FindAllString(line, -1) {
		d, err := parseAmount(tok)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// firstLineAmount returns the first decimal amount on a line, if any.
func firstLineAmount(line string) (decimal.Decimal, bool) {
	amounts := lineAmounts(line)
	if len(amounts) == 0 {
		return decimal.Zero, false
	}
	return amounts[0], true
}

// present wraps a decimal as a set NullDecimal.
func present(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
