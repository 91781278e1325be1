package extract

import (
	"regexp"
	"strings"

	"factuurscan/pkg/models"
)

const maxNameCandidates = 10

var (
	// Lines that can never be a company name: field labels, bare numbers,
	// anything carrying an amount.
	nameNoiseRe  = regexp.MustCompile(`(?i)\b(factuur|invoice|datum|date|btw|vat|tel|telefoon|phone|fax|email|e-mail|iban|bic|kvk|pagina|page|totaal|total|bedrag|amount)\b`)
	bareNumberRe = regexp.MustCompile(`^[\d\s.,/-]+$`)

	// "Proper-case words" shape: every word starts uppercase, the kind of
	// line a letterhead produces.
	properCaseRe = regexp.MustCompile(`^[A-Z][a-zA-Z&.'-]*(?:\s+(?:[A-Z][a-zA-Z&.'-]*|&|en|de|van|het|the|of))*\.?$`)
)

// scoreCompanyCandidate scores one candidate line for company-name
// selection; position is the candidate's rank in document order. A
// negative score means disqualified. Pure function so the rubric is
// testable without running the pipeline.
func scoreCompanyCandidate(line string, position int) int {
	if len([]rune(line)) < 3 ||
		nameNoiseRe.MatchString(line) ||
		bareNumberRe.MatchString(line) ||
		currencyTokenRe.MatchString(line) {
		return -1
	}

	score := 0
	if companySuffixRe.MatchString(line) {
		score += 15
	}
	if n := len([]rune(line)); n >= 5 && n <= 40 {
		score += 5
	}
	if properCaseRe.MatchString(line) {
		score += 8
	}
	if position < 5 {
		score += 3
	}
	if !streetRe.MatchString(line) {
		score += 3
	}
	return score
}

// bestCandidate reduces candidate lines to the highest-scoring one, ties
// broken by first occurrence. Returns "" when no candidate scores above
// zero.
func bestCandidate(candidates []string, score func(string, int) int) string {
	best, bestScore := "", 0
	for i, c := range candidates {
		if s := score(c, i); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// extractVendor identifies the issuing company and its contact details.
//
// The company name is selected by scoring, not first-match: letterheads
// bury the name between addresses, slogans and OCR debris, and the scored
// rubric beats any single pattern there. Contact fields each use one
// dedicated pattern over the vendor/header text. The IBAN is searched in
// the full document because it usually sits in a footer outside the
// vendor block.
func (e *Extractor) extractVendor(record *models.InvoiceRecord, fullText string, lines []string, sections SectionMap) {
	v := &record.Vendor

	indices := sections.Union(SectionHeader, SectionVendor)
	var candidates []string
	for _, idx := range indices {
		if len(candidates) == maxNameCandidates {
			break
		}
		candidates = append(candidates, lines[idx])
	}
	v.CompanyName = bestCandidate(candidates, scoreCompanyCandidate)

	var scope strings.Builder
	for _, idx := range indices {
		scope.WriteString(lines[idx])
		scope.WriteString("\n")
	}
	scopeText := scope.String()

	v.Email = emailRe.FindString(scopeText)
	v.Phone = strings.TrimSpace(phoneRe.FindString(scopeText))
	v.Website = websiteRe.FindString(scopeText)
	if m := kvkRe.FindStringSubmatch(scopeText); m != nil {
		v.RegistrationNumber = m[1]
	}
	if m := vatRe.FindString(scopeText); m != "" {
		v.VATNumber = m
	}
	v.IBAN = findIBAN(fullText)

	e.extractVendorAddress(v, lines, indices)

	e.log.Debug().
		Str("company", v.CompanyName).
		Str("email", v.Email).
		Str("iban", v.IBAN).
		Msg("vendor extracted")
}

// extractVendorAddress walks the vendor block and fills the address from
// shape patterns: Dutch postal code ("1234 AB") followed by a city name,
// and a street-suffix word followed by a house number.
//
// The walk covers the contiguous range between the first and last scoped
// line, not just the tagged lines themselves: address lines carry no
// lexical cue and sit untagged between the company name and the contact
// details.
func (e *Extractor) extractVendorAddress(v *models.VendorInfo, lines []string, indices []int) {
	if len(indices) == 0 {
		return
	}
	for idx := indices[0]; idx <= indices[len(indices)-1] && idx < len(lines); idx++ {
		line := lines[idx]
		if v.Address.Street == "" {
			if m := streetRe.FindStringSubmatch(line); m != nil {
				v.Address.Street = m[1]
				v.Address.HouseNumber = m[2]
				if v.Address.FullAddress == "" {
					v.Address.FullAddress = line
				}
			}
		}
		if v.Address.PostalCode == "" {
			if m := postalCityRe.FindStringSubmatch(line); m != nil {
				v.Address.PostalCode = strings.ToUpper(m[1])
				v.Address.City = strings.TrimSpace(m[2])
				if v.Address.FullAddress == "" {
					v.Address.FullAddress = line
				}
			}
		}
		if v.Address.Street != "" && v.Address.PostalCode != "" {
			break
		}
	}
}
