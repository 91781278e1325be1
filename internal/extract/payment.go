package extract

import (
	"fmt"
	"regexp"
	"strings"

	"factuurscan/pkg/models"
)

var (
	// Two locale-specific capture groups; whichever matched carries the
	// day count.
	paymentTermsRe = regexp.MustCompile(`(?i)(?:betaling\s+binnen|betalen\s+binnen|betaal\s+binnen|gelieve\s+binnen)\s+(\d{1,3})\s+dagen|(?:payment\s+within|pay(?:able)?\s+within|\bnet\b)\s+(\d{1,3})\s+days?`)

	paymentMethodRe = regexp.MustCompile(`(?i)\b(ideal|overboeking|bankoverschrijving|automatische\s+incasso|incasso|creditcard|bank\s+transfer|direct\s+debit|credit\s+card)\b`)

	labeledBICRe = regexp.MustCompile(`(?i)\b(?:bic|swift)\b\s*:?\s*([A-Z]{6}[A-Z0-9]{2}(?:[A-Z0-9]{3})?)\b`)

	paymentReferencePatterns = []fieldPattern{
		{re: regexp.MustCompile(`(?i)(?:betalingskenmerk|payment\s+reference)\s*:?\s*([A-Za-z0-9./-]{4,24})`), validate: minLen(4)},
	}

	bankAccountPatterns = []fieldPattern{
		{re: regexp.MustCompile(`(?i)rekening(?:nummer)?\s*:?\s*([A-Z0-9. ]{6,34})`), validate: minLen(6)},
	}
)

// extractPayment fills the payment terms, method and bank identifiers from
// the payment-tagged lines, with the IBAN searched across the full
// document. The vendor/payment IBAN cross-copy happens later, in the
// fallback pass over the finished record.
func (e *Extractor) extractPayment(record *models.InvoiceRecord, fullText string, lines []string, sections SectionMap) {
	p := &record.Payment
	indices := sections.Lines(SectionPayment)

	var scope strings.Builder
	for _, idx := range indices {
		scope.WriteString(lines[idx])
		scope.WriteString("\n")
	}
	scopeText := scope.String()

	if m := paymentTermsRe.FindStringSubmatch(scopeText); m != nil {
		p.PaymentTerms = fmt.Sprintf("%s days", firstGroup(m))
	}
	if m := paymentMethodRe.FindString(scopeText); m != "" {
		p.PaymentMethod = strings.ToLower(m)
	}
	if m := labeledBICRe.FindStringSubmatch(scopeText); m != nil {
		p.BIC = strings.ToUpper(m[1])
	}

	p.PaymentReference = scanLines(lines, indices, paymentReferencePatterns)
	if acct := scanLines(lines, indices, bankAccountPatterns); acct != "" {
		p.BankAccount = strings.TrimSpace(acct)
	}

	p.IBAN = findIBAN(fullText)

	e.log.Debug().
		Str("terms", p.PaymentTerms).
		Str("iban", p.IBAN).
		Msg("payment extracted")
}
