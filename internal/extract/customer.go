package extract

import (
	"regexp"

	"factuurscan/pkg/models"
)

var (
	customerNumberPatterns = []fieldPattern{
		{re: regexp.MustCompile(`(?i)(?:klantnummer|klantnr|debiteurnummer|customer\s*(?:number|no|id))\.?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9./-]{0,24})`), validate: minLen(2)},
	}

	// Lines that cannot be the customer even inside the window: metadata,
	// contact debris, pricing.
	customerSkipRe = regexp.MustCompile(`(?i)\b(factuur|invoice|datum|date|btw|vat|kvk|iban|tel|telefoon|phone|email|e-mail|www|pagina|page|bedrag|amount|prijs|price)\b|@`)

	// Locale noise that shape-matches a company name but is a place or
	// boilerplate word instead.
	customerNoiseRe = regexp.MustCompile(`(?i)^(amsterdam|rotterdam|utrecht|den\s+haag|eindhoven|groningen|nederland|netherlands|holland)\b`)

	// Tier-two anchor: a VAT number or contact marker after which the
	// customer block typically starts.
	customerAnchorRe = regexp.MustCompile(`(?i)\bbtw-?(?:nummer|nr)\b|\bvat\s*(?:number|no)\b|@|\bwww\.`)

	// Pricing or item-table keywords that terminate the tier-two scan.
	pricingStopRe = regexp.MustCompile(`(?i)\b(omschrijving|beschrijving|aantal|description|qty|quantity|prijs|price|bedrag|amount|subtotaal|subtotal|totaal|total)\b`)
)

// extractCustomer fills the customer number and company name.
//
// The name search is positional, not scored: the window runs from just
// after the last vendor-tagged line to just before the first
// line-items-tagged line, because that is where invoice templates put the
// billed party. When the window finds nothing, a second pass scans the
// whole document from the first VAT/contact marker onward, stopping at the
// item table. Customer placement is too inconsistent across templates for
// a single strategy.
func (e *Extractor) extractCustomer(record *models.InvoiceRecord, lines []string, sections SectionMap) {
	c := &record.Customer

	c.CustomerNumber = scanLines(lines, sections.Union(SectionCustomer, SectionInvoiceMeta), customerNumberPatterns)

	start, end := customerWindow(len(lines), sections)
	for i := start; i < end && i < len(lines); i++ {
		if name := customerNameCandidate(lines[i]); name != "" {
			c.CompanyName = name
			break
		}
	}

	if c.CompanyName == "" {
		c.CompanyName = e.customerFallbackScan(lines)
	}

	// A VAT number inside the window belongs to the customer; the vendor's
	// own number sits in the vendor block above it.
	for i := start; i < end && i < len(lines); i++ {
		if m := vatRe.FindString(lines[i]); m != "" {
			c.VATNumber = m
			break
		}
	}

	e.log.Debug().
		Str("company", c.CompanyName).
		Str("customer_number", c.CustomerNumber).
		Msg("customer extracted")
}

// customerWindow computes the [start, end) line range for the positional
// pass: strictly after the last vendor line, strictly before the first
// line-items line. Empty sections fall back to "after the first 5 lines"
// and "before the document midpoint".
func customerWindow(lineCount int, sections SectionMap) (int, int) {
	start := 5
	if vendor := sections.Lines(SectionVendor); len(vendor) > 0 {
		start = vendor[len(vendor)-1] + 1
	}
	end := lineCount / 2
	if items := sections.Lines(SectionLineItems); len(items) > 0 {
		end = items[0]
	}
	if start > lineCount {
		start = lineCount
	}
	return start, end
}

// customerNameCandidate returns the line if it shape-matches a company
// name and carries none of the skip or noise markers, "" otherwise.
func customerNameCandidate(line string) string {
	if customerSkipRe.MatchString(line) || customerNoiseRe.MatchString(line) {
		return ""
	}
	if len([]rune(line)) < 3 || bareNumberRe.MatchString(line) || currencyTokenRe.MatchString(line) {
		return ""
	}
	if !properCaseRe.MatchString(line) {
		return ""
	}
	return line
}

// customerFallbackScan is the tier-two pass: start right after the first
// VAT-number or contact marker and take the first name-shaped line,
// stopping as soon as the item table or pricing vocabulary begins.
func (e *Extractor) customerFallbackScan(lines []string) string {
	anchored := false
	for _, line := range lines {
		if !anchored {
			if customerAnchorRe.MatchString(line) {
				anchored = true
			}
			continue
		}
		if pricingStopRe.MatchString(line) {
			return ""
		}
		if name := customerNameCandidate(line); name != "" {
			return name
		}
	}
	return ""
}
