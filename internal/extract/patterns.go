package extract

import (
	"regexp"
	"strings"
)

// fieldPattern pairs a capturing regex with an optional validator. Patterns
// for one field form an ordered list, most specific first; evaluation is
// lazy and stops at the first accepted capture. The ordering is the whole
// contract: keep new patterns below the more specific ones.
type fieldPattern struct {
	re       *regexp.Regexp
	validate func(string) bool
}

// firstMatch runs the pattern list against one line and returns the first
// accepted capture, or "" when nothing matched.
func firstMatch(line string, patterns []fieldPattern) string {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		val := strings.TrimSpace(firstGroup(m))
		if val == "" {
			continue
		}
		if p.validate != nil && !p.validate(val) {
			continue
		}
		return val
	}
	return ""
}

// scanLines applies the pattern list line by line over the given indices
// (ascending document order assumed) and returns the first accepted value.
func scanLines(lines []string, indices []int, patterns []fieldPattern) string {
	for _, idx := range indices {
		if idx < 0 || idx >= len(lines) {
			continue
		}
		if v := firstMatch(lines[idx], patterns); v != "" {
			return v
		}
	}
	return ""
}

// firstGroup returns the first non-empty capture group of a submatch.
// Patterns with locale alternatives capture into different groups.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// minLen rejects captures shorter than n runes, the sanity check that
// stops one-character OCR debris from being accepted as field values.
func minLen(n int) func(string) bool {
	return func(s string) bool { return len([]rune(s)) >= n }
}

// notLabel rejects a capture that is just a label word repeated, which
// happens when the separating colon was lost by the OCR step and the
// shape pattern swallows the label itself.
func notLabel(labels ...string) func(string) bool {
	return func(s string) bool {
		c := strings.ToLower(strings.Trim(s, ":.#- "))
		for _, l := range labels {
			if c == l {
				return false
			}
		}
		return true
	}
}

func allOf(checks ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, c := range checks {
			if !c(s) {
				return false
			}
		}
		return true
	}
}

// Shared value shapes.
var (
	dateShape = `(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{4}[-/.]\d{1,2}[-/.]\d{1,2})`
	codeShape = `([A-Za-z0-9][A-Za-z0-9./-]{2,24})`

	emailRe   = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	phoneRe   = regexp.MustCompile(`(?:\+31|0031|0)[\s-]?\d{1,3}(?:[\s-]?\d{2,4}){2,4}\b`)
	websiteRe = regexp.MustCompile(`\b(?:www\.|https?://)[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:/\S*)?`)
	vatRe     = regexp.MustCompile(`\b([A-Z]{2}\d{9}B\d{2}|[A-Z]{2}\d{8,12})\b`)
	kvkRe     = regexp.MustCompile(`(?i)\bkvk(?:-?n(?:umme)?r)?\.?\s*:?\s*(\d{8})\b`)
	bicRe     = regexp.MustCompile(`\b([A-Z]{4}[A-Z]{2}[A-Z0-9]{2}(?:[A-Z0-9]{3})?)\b`)

	postalCityRe = regexp.MustCompile(`\b(\d{4}\s?[A-Z]{2})\b[,\s]*([A-Z][a-zA-Z' -]{1,30})?`)
	streetRe     = regexp.MustCompile(`(?i)\b([A-Z][a-zA-Z'.-]*(?:straat|laan|weg|plein|kade|dijk|singel|gracht|hof|markt|street|avenue|road|lane))\s+(\d+[a-zA-Z]?(?:-\d+)?)\b`)
)

// normalizeIBAN strips spacing from an IBAN-shaped token and applies a
// coarse length check. Shape matching only; no checksum validation here.
func normalizeIBAN(raw string) string {
	s := strings.ToUpper(strings.ReplaceAll(raw, " ", ""))
	if len(s) < 15 || len(s) > 34 {
		return ""
	}
	return s
}

// findIBAN returns the first IBAN-shaped token in text, normalized.
func findIBAN(text string) string {
	for _, m := range ibanShapeRe.FindAllString(text, -1) {
		if iban := normalizeIBAN(m); iban != "" {
			return iban
		}
	}
	return ""
}
