package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"factuurscan/pkg/models"
)

var (
	productCodeRe = regexp.MustCompile(`\b[A-Z]{2,4}-?\d{3,6}\b`)
	itemWordRe    = regexp.MustCompile(`[A-Za-z]{3,}`)
	itemStopRe    = regexp.MustCompile(`(?i)\bsubtotaal\b|\bsubtotal\b|\btotaal\b|\btotal\b|\bte\s+betalen\b|\bbtw\b|\bvat\b|\bamount\s+due\b`)
	intTokenRe    = regexp.MustCompile(`\b\d{1,4}\b`)
	unitTokenRe   = regexp.MustCompile(`(?i)\b(stuks|stuk|uur|uren|pcs|hours?|dagen|days)\b`)

	// Quantities only make sense in (0, 1000]; anything larger is a year,
	// a code or an amount fragment.
	maxPlausibleQuantity = 1000
)

// extractLineItems walks the line-items region and assembles
// description/quantity/price triples from ambiguous numeric sequences.
//
// The scan window starts at the first line-items-tagged line and ends at
// the first totals-tagged line after it, or five lines past the last
// line-items line when no totals block exists.
func (e *Extractor) extractLineItems(record *models.InvoiceRecord, lines []string, sections SectionMap) {
	itemLines := sections.Lines(SectionLineItems)
	if len(itemLines) == 0 {
		return
	}

	start := itemLines[0]
	end := itemLines[len(itemLines)-1] + 6
	for _, t := range sections.Lines(SectionTotals) {
		if t > start {
			end = t
			break
		}
	}
	if end > len(lines) {
		end = len(lines)
	}

	for i := start; i < end; i++ {
		if item, ok := parseLineItem(lines[i]); ok {
			record.LineItems = append(record.LineItems, item)
		}
	}

	for i := range record.LineItems {
		deriveLineItem(&record.LineItems[i])
	}

	e.log.Debug().Int("items", len(record.LineItems)).Msg("line items extracted")
}

// parseLineItem decides whether one line is an item row and, if so, splits
// it into description, quantity and amounts.
//
// A line is a row when it carries a product-code-shaped token
// (unconditionally), or when it has at least three consecutive letters and
// a decimal amount while not being a totals line. With two or more amounts
// the first is the unit price and the last the line total; a single amount
// is the line total, because single-amount rows in practice print what the
// customer pays, not the tariff.
func parseLineItem(line string) (models.LineItem, bool) {
	var item models.LineItem

	code := productCodeRe.FindString(line)
	amounts := lineAmounts(line)

	if code == "" {
		if !itemWordRe.MatchString(line) || len(amounts) == 0 || itemStopRe.MatchString(line) {
			return item, false
		}
	}
	item.ProductCode = code

	switch {
	case len(amounts) >= 2:
		item.UnitPrice = present(amounts[0])
		item.LineTotal = present(amounts[len(amounts)-1])
	case len(amounts) == 1:
		item.LineTotal = present(amounts[0])
	}

	if m := taxRateRe.FindStringSubmatch(line); m != nil {
		if rate, err := parseRate(m[1]); err == nil {
			item.TaxRate = present(rate)
		}
	}

	// Strip everything numeric before looking for the quantity and the
	// description: amounts, percentages, currency marks, the code.
	stripped := decimalAmountRe.ReplaceAllString(line, " ")
	stripped = percentRe.ReplaceAllString(stripped, " ")
	stripped = currencyTokenRe.ReplaceAllString(stripped, " ")
	if code != "" {
		stripped = strings.Replace(stripped, code, " ", 1)
	}

	var qtyToken string
	for _, tok := range intTokenRe.FindAllString(stripped, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 || n > maxPlausibleQuantity {
			continue
		}
		item.Quantity = present(decimal.NewFromInt(int64(n)))
		qtyToken = tok
		break
	}

	if m := unitTokenRe.FindString(stripped); m != "" {
		item.Unit = strings.ToLower(m)
	}

	desc := stripped
	if qtyToken != "" {
		desc = strings.Replace(desc, qtyToken, " ", 1)
	}
	item.Description = strings.Join(strings.Fields(desc), " ")

	return item, true
}

// deriveLineItem completes the quantity/price/total triangle. Each rule
// fires only when its two inputs are known and the target is still unset,
// in this fixed order; an extracted line total is never overwritten by a
// computed one. Quantity defaults to 1 when never observed: an item is
// never left without a quantity.
func deriveLineItem(item *models.LineItem) {
	if item.Quantity.Valid && item.LineTotal.Valid && !item.UnitPrice.Valid && !item.Quantity.Decimal.IsZero() {
		item.UnitPrice = present(item.LineTotal.Decimal.Div(item.Quantity.Decimal).Round(2))
	}
	if item.UnitPrice.Valid && item.Quantity.Valid && !item.LineTotal.Valid {
		item.LineTotal = present(item.UnitPrice.Decimal.Mul(item.Quantity.Decimal))
	}
	if item.UnitPrice.Valid && item.LineTotal.Valid && !item.Quantity.Valid && !item.UnitPrice.Decimal.IsZero() {
		item.Quantity = present(item.LineTotal.Decimal.Div(item.UnitPrice.Decimal).Round(2))
	}
	if !item.Quantity.Valid {
		item.Quantity = present(decimal.NewFromInt(1))
	}
}
