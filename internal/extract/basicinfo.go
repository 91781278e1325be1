package extract

import (
	"regexp"

	"factuurscan/pkg/models"
)

// Ordered candidate patterns, most specific (explicit label + value) first,
// least specific (bare standalone code shape) last. First accepted match
// wins per field; this is first-match, not best-match.
var (
	invoiceNumberPatterns = []fieldPattern{
		{re: regexp.MustCompile(`(?i)factuur(?:nummer|nr)\.?\s*[:#]?\s*` + codeShape), validate: allOf(minLen(3), notLabel("factuurnummer", "factuurnr"))},
		{re: regexp.MustCompile(`(?i)invoice\s*(?:number|no|nr)\.?\s*[:#]?\s*` + codeShape), validate: allOf(minLen(3), notLabel("invoicenumber", "invoice"))},
		{re: regexp.MustCompile(`(?i)\b(?:factuur|invoice)\s*[:#]\s*` + codeShape), validate: minLen(3)},
		// Bare code of a known shape, e.g. "F2024-0091". The letter prefix
		// is required so date fragments never qualify.
		{re: regexp.MustCompile(`\b([A-Z]{1,3}\d{4}[-/.]\d{2,6})\b`), validate: minLen(3)},
	}

	invoiceDatePatterns = []fieldPattern{
		{re: regexp.MustCompile(`(?i)factuurdatum\s*:?\s*` + dateShape)},
		{re: regexp.MustCompile(`(?i)invoice\s*date\s*:?\s*` + dateShape)},
		{re: regexp.MustCompile(`(?i)\bdatum\s*:?\s*` + dateShape)},
		{re: regexp.MustCompile(`(?i)\bdate\s*:?\s*` + dateShape)},
	}

	orderNumberPatterns = []fieldPattern{
		{re: regexp.MustCompile(`(?i)(?:ordernummer|bestelnummer)\.?\s*[:#]?\s*` + codeShape), validate: allOf(minLen(3), notLabel("ordernummer", "bestelnummer"))},
		{re: regexp.MustCompile(`(?i)(?:order|purchase\s*order|po)\s*(?:number|no|nr)?\.?\s*[:#]\s*` + codeShape), validate: minLen(3)},
	}

	referencePatterns = []fieldPattern{
		{re: regexp.MustCompile(`(?i)(?:referentie|kenmerk|reference)\.?\s*[:#]?\s*` + codeShape), validate: allOf(minLen(3), notLabel("referentie", "kenmerk", "reference"))},
	}

	// Due dates are rare and unambiguous when present, so a single labeled
	// pattern over the full text suffices; no section scan, no fallback.
	dueDateRe = regexp.MustCompile(`(?i)(?:vervaldatum|vervaldag|due\s*date|te\s+betalen\s+voor)\s*:?\s*` + dateShape)
)

// extractBasicInfo fills invoice number, invoice date, due date, order
// number and reference. Candidate lines come from the invoice_meta and
// header sections in ascending document order; an unmatched field is
// simply left unset.
func (e *Extractor) extractBasicInfo(record *models.InvoiceRecord, fullText string, lines []string, sections SectionMap) {
	indices := sections.Union(SectionInvoiceMeta, SectionHeader)

	record.InvoiceNumber = scanLines(lines, indices, invoiceNumberPatterns)
	record.InvoiceDate = scanLines(lines, indices, invoiceDatePatterns)
	record.OrderNumber = scanLines(lines, indices, orderNumberPatterns)
	record.Reference = scanLines(lines, indices, referencePatterns)

	if m := dueDateRe.FindStringSubmatch(fullText); m != nil {
		record.DueDate = firstGroup(m)
	}

	e.log.Debug().
		Str("invoice_number", record.InvoiceNumber).
		Str("invoice_date", record.InvoiceDate).
		Str("due_date", record.DueDate).
		Msg("basic info extracted")
}
