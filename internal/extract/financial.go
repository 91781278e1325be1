package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"factuurscan/pkg/models"
)

var (
	subtotalKeywordRe = regexp.MustCompile(`(?i)\bsubtotaal\b|\bsubtotal\b|\btotaal\s+excl(?:usief)?\.?(?:\s*btw)?|\btotal\s+excl(?:uding)?\.?(?:\s*(?:vat|tax))?|\bnetto(?:bedrag)?\b|\bnet\s+amount\b`)
	taxKeywordRe      = regexp.MustCompile(`(?i)\bbtw\b|\bvat\b|\bomzetbelasting\b|\btax\b`)
	totalKeywordRe    = regexp.MustCompile(`(?i)\btotaal\b|\btotal\b|\bte\s+betalen\b|\bamount\s+due\b|\bverschuldigd\b|\beindbedrag\b`)

	taxRateRe      = regexp.MustCompile(`(\d{1,2}(?:[.,]\d{1,2})?)\s?%`)
	discountRe     = regexp.MustCompile(`(?i)\bkorting\b|\bdiscount\b`)
	shippingRe     = regexp.MustCompile(`(?i)\bverzendkosten\b|\bbezorgkosten\b|\bshipping\b|\bfreight\b`)
	taxTypeLabelRe = regexp.MustCompile(`(?i)\b(btw|vat|omzetbelasting)\b[^%€$£]{0,10}\d{1,2}(?:[.,]\d{1,2})?\s?%`)
)

// extractFinancial scans the totals and line-items sections for labeled
// amounts and then reconciles the missing ones through the accounting
// identity subtotal + tax = total.
//
// Each rule requires a keyword and an amount on the same line. Rule order
// within a line matters because the labels overlap lexically: "Totaal
// excl. btw" must bind as subtotal, not tax or total, and the tax rule
// additionally demands a percentage so that "Totaal incl. btw" falls
// through to total.
func (e *Extractor) extractFinancial(record *models.InvoiceRecord, lines []string, sections SectionMap) {
	f := &record.Financial

	for _, idx := range sections.Union(SectionTotals, SectionLineItems) {
		line := lines[idx]
		amount, ok := firstLineAmount(line)
		if !ok {
			continue
		}

		switch {
		case discountRe.MatchString(line):
			if !f.DiscountAmount.Valid {
				f.DiscountAmount = present(amount)
			}
		case shippingRe.MatchString(line):
			if !f.ShippingAmount.Valid {
				f.ShippingAmount = present(amount)
			}
		case subtotalKeywordRe.MatchString(line):
			if !f.Subtotal.Valid {
				f.Subtotal = present(amount)
			}
		case taxKeywordRe.MatchString(line) && taxRateRe.MatchString(line):
			if !f.TaxAmount.Valid {
				// The rate precedes the amount on a tax line; the amount
				// found first on the line is the tax amount only when it
				// is not the rate itself, which the amount shape (two
				// decimals, comma) already guarantees.
				f.TaxAmount = present(amount)
			}
			if !f.TaxRate.Valid {
				if m := taxRateRe.FindStringSubmatch(line); m != nil {
					if rate, err := parseRate(m[1]); err == nil {
						f.TaxRate = present(rate)
					}
				}
			}
			if f.TaxType == "" {
				f.TaxType = taxTypeLabelRe.FindString(line)
			}
		case totalKeywordRe.MatchString(line):
			if !f.TotalAmount.Valid {
				f.TotalAmount = present(amount)
			}
		}
	}

	e.reconcileFinancial(f)

	e.log.Debug().
		Str("subtotal", nullDecimalString(f.Subtotal)).
		Str("tax", nullDecimalString(f.TaxAmount)).
		Str("total", nullDecimalString(f.TotalAmount)).
		Msg("financial extracted")
}

// reconcileFinancial fills missing amounts from the ones observed, in a
// fixed preference order:
//
//  1. subtotal + tax known, total missing: total is their sum. Preferred
//     because it uses only observed values.
//  2. total known, subtotal missing: assume the configured default tax
//     rate unless one was captured, derive subtotal and tax backwards.
//     Last-resort rule; it injects an assumption.
//  3. total and subtotal known, tax missing: tax is their difference.
//
// When nothing was found anywhere, every field stays unset; zero values
// are never invented.
func (e *Extractor) reconcileFinancial(f *models.FinancialInfo) {
	hundred := decimal.NewFromInt(100)

	switch {
	case f.Subtotal.Valid && f.TaxAmount.Valid && !f.TotalAmount.Valid:
		f.TotalAmount = present(f.Subtotal.Decimal.Add(f.TaxAmount.Decimal))

	case f.TotalAmount.Valid && !f.Subtotal.Valid:
		rate := e.cfg.DefaultTaxRate
		if f.TaxRate.Valid {
			rate = f.TaxRate.Decimal
		} else {
			f.TaxRate = present(rate)
		}
		divisor := decimal.NewFromInt(1).Add(rate.Div(hundred))
		subtotal := f.TotalAmount.Decimal.Div(divisor).Round(2)
		f.Subtotal = present(subtotal)
		f.TaxAmount = present(f.TotalAmount.Decimal.Sub(subtotal))

	case f.TotalAmount.Valid && f.Subtotal.Valid && !f.TaxAmount.Valid:
		f.TaxAmount = present(f.TotalAmount.Decimal.Sub(f.Subtotal.Decimal))
	}
}

// parseRate parses a percentage value that may use a decimal comma.
func parseRate(tok string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(tok, ",", "."))
}

func nullDecimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return "unset"
	}
	return d.Decimal.String()
}
