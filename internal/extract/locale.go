package extract

import (
	"strings"

	"factuurscan/pkg/models"
)

// currencyMarkers is evaluated in order; the first match wins. Currency is
// never inferred from amount magnitude or formatting.
var currencyMarkers = []struct {
	code    string
	markers []string
}{
	{"EUR", []string{"€", "eur"}},
	{"USD", []string{"$", "usd"}},
	{"GBP", []string{"£", "gbp"}},
}

// detectLocale tags the record with the document language and currency by
// pure lexical scan. The primary keyword set is checked first; only when
// it matches nothing is the secondary set consulted.
func (e *Extractor) detectLocale(record *models.InvoiceRecord, text string) {
	lower := strings.ToLower(text)

	if containsAny(lower, e.cfg.PrimaryKeywords) {
		record.Language = e.cfg.PrimaryLanguage
	} else if containsAny(lower, e.cfg.SecondaryKeywords) {
		record.Language = e.cfg.SecondaryLanguage
	}

	for _, c := range currencyMarkers {
		if containsAny(lower, c.markers) {
			record.Currency = c.code
			break
		}
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
