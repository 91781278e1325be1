package extract

import "regexp"

// Section names a semantic region of the document. A line may belong to
// several sections at once; membership is a union, never an exclusive choice.
type Section string

const (
	SectionHeader      Section = "header"
	SectionVendor      Section = "vendor"
	SectionCustomer    Section = "customer"
	SectionInvoiceMeta Section = "invoice_meta"
	SectionLineItems   Section = "line_items"
	SectionTotals      Section = "totals"
	SectionPayment     Section = "payment"
)

// SectionMap maps each section to the ordered set of line indices tagged
// with it. Indices may repeat across sections, never within one section.
// Built once by AnalyzeSections and read-only afterwards.
type SectionMap map[Section][]int

// Lines returns the ordered indices tagged with s. Empty slice when the
// section matched nothing; callers treat that as "field not found".
func (m SectionMap) Lines(s Section) []int { return m[s] }

// Union returns the sorted, de-duplicated union of the given sections'
// line indices.
func (m SectionMap) Union(sections ...Section) []int {
	seen := make(map[int]bool)
	var out []int
	for _, s := range sections {
		for _, idx := range m[s] {
			if !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		}
	}
	// Membership lists are ascending per section, but the union of two
	// sections is not; sort so callers scan in document order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Lexical cues per section. Each rule is keyword- or shape-based; the one
// positional rule (header = first 20% of the document) lives in
// AnalyzeSections itself.
var (
	metaCueRe = regexp.MustCompile(`(?i)\b(factuur(nummer|nr|datum)|invoice\s*(number|no|date)|vervaldatum|due\s*date|ordernummer|bestelnummer|order\s*(number|no)|referentie|reference|kenmerk)\b`)

	companySuffixRe = regexp.MustCompile(`(?i)\b(B\.?V\.?|N\.?V\.?|V\.?O\.?F\.?|Ltd\.?|Inc\.?|GmbH|LLC|Corp\.?|S\.?A\.?)(\b|$)`)
	contactCueRe    = regexp.MustCompile(`(?i)(@|www\.|https?://|\btel\b|\btelefoon\b|\bphone\b|\bkvk\b|\bbtw-?(nummer|nr)\b|\bvat\s*(number|no)\b)`)

	customerCueRe = regexp.MustCompile(`(?i)\b(klant(nummer|nr)?|debiteur(nummer)?|customer|bill(ed)?\s*to|factuuradres|geleverd\s+aan|t\.a\.v\.|afleveradres)\b`)

	lineItemCueRe = regexp.MustCompile(`(?i)\b(omschrijving|beschrijving|aantal|artikel(nummer)?|description|qty|quantity|item|stuks|uren|eenheid)\b`)

	totalsCueRe = regexp.MustCompile(`(?i)\b(sub)?(totaal|total)\b|\bbtw\b|\bvat\b|\bte\s+betalen\b|\bamount\s+due\b|\bverschuldigd\b|\bkorting\b|\bdiscount\b|\bverzendkosten\b|\bbezorgkosten\b|\bshipping\b|\bfreight\b`)

	paymentCueRe = regexp.MustCompile(`(?i)\b(betaling|betalen|betaal|payment|iban|bic|swift|rekening(nummer)?|bank|overmaken|betalingskenmerk)\b`)

	// Currency amount in decimal-comma locale, optional symbol/code prefix.
	amountCueRe = regexp.MustCompile(`(?:€|\$|£|(?i:EUR|USD|GBP))?\s*\d{1,3}(?:\.\d{3})*,\d{2}\b`)

	ibanShapeRe = regexp.MustCompile(`\b[A-Z]{2}\d{2}(?:\s?[A-Z0-9]{4}){2,7}(?:\s?[A-Z0-9]{1,3})?\b`)
)

// AnalyzeSections classifies each line into zero or more sections using
// the lexical cues above plus one positional rule: every line within the
// first 20% of the document is tagged header unconditionally.
//
// An empty document yields a map with all sections empty. Rule order does
// not matter; a line accumulates into every section whose predicate holds.
func AnalyzeSections(lines []string) SectionMap {
	m := SectionMap{}

	if len(lines) == 0 {
		return m
	}

	headerCutoff := len(lines) / 5
	if headerCutoff == 0 {
		headerCutoff = 1
	}

	for i, line := range lines {
		if i < headerCutoff {
			m[SectionHeader] = append(m[SectionHeader], i)
		}
		if metaCueRe.MatchString(line) {
			m[SectionInvoiceMeta] = append(m[SectionInvoiceMeta], i)
		}
		if companySuffixRe.MatchString(line) || contactCueRe.MatchString(line) {
			m[SectionVendor] = append(m[SectionVendor], i)
		}
		if customerCueRe.MatchString(line) {
			m[SectionCustomer] = append(m[SectionCustomer], i)
		}
		if lineItemCueRe.MatchString(line) {
			m[SectionLineItems] = append(m[SectionLineItems], i)
		}
		// Totals need both a totals keyword and an amount on the same
		// line, otherwise column headers like "Totaal" capture the
		// whole item table.
		if totalsCueRe.MatchString(line) && amountCueRe.MatchString(line) {
			m[SectionTotals] = append(m[SectionTotals], i)
		}
		if paymentCueRe.MatchString(line) || ibanShapeRe.MatchString(line) {
			m[SectionPayment] = append(m[SectionPayment], i)
		}
	}

	return m
}
