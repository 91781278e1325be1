package extract

import (
	"testing"

	"factuurscan/pkg/models"
)

func TestScoreCompanyCandidate(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		position int
		wantNeg  bool
	}{
		{"legal suffix", "TechSupplies B.V.", 0, false},
		{"field label disqualified", "Factuurnummer: F2024-0091", 0, true},
		{"bare number disqualified", "12345 678", 1, true},
		{"amount disqualified", "€ 1.234,56", 2, true},
		{"too short disqualified", "ab", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreCompanyCandidate(tt.line, tt.position)
			if tt.wantNeg && got >= 0 {
				t.Errorf("score(%q) = %d, want negative", tt.line, got)
			}
			if !tt.wantNeg && got <= 0 {
				t.Errorf("score(%q) = %d, want positive", tt.line, got)
			}
		})
	}
}

func TestScoreCompanyCandidateSuffixOutranksPlainName(t *testing.T) {
	suffixed := scoreCompanyCandidate("TechSupplies B.V.", 0)
	plain := scoreCompanyCandidate("Random Proper Words", 0)
	if suffixed <= plain {
		t.Errorf("suffixed name scored %d, plain name %d; suffix must dominate", suffixed, plain)
	}
}

func TestBestCandidateTieBreaksOnFirst(t *testing.T) {
	score := func(line string, position int) int { return len(line) }
	got := bestCandidate([]string{"abc", "xyz", "ab"}, score)
	if got != "abc" {
		t.Errorf("bestCandidate = %q, want first of the tied candidates", got)
	}
}

func TestBestCandidateAllDisqualified(t *testing.T) {
	score := func(string, int) int { return -1 }
	if got := bestCandidate([]string{"een", "twee"}, score); got != "" {
		t.Errorf("bestCandidate = %q, want empty when nothing qualifies", got)
	}
}

func TestExtractVendor(t *testing.T) {
	text := `TechSupplies B.V.
Hoofdstraat 12
1234 AB Amsterdam
Tel: 020-1234567
info@techsupplies.nl
KvK: 12345678
BTW-nummer: NL123456789B01
regel acht
regel negen
regel tien
IBAN: NL91 ABNA 0417 1643 00`

	record := &models.InvoiceRecord{}
	lines := NormalizeLines(text)
	sections := AnalyzeSections(lines)
	New(Config{}).extractVendor(record, text, lines, sections)

	v := record.Vendor
	if v.CompanyName != "TechSupplies B.V." {
		t.Errorf("CompanyName = %q, want TechSupplies B.V.", v.CompanyName)
	}
	if v.Email != "info@techsupplies.nl" {
		t.Errorf("Email = %q", v.Email)
	}
	if v.RegistrationNumber != "12345678" {
		t.Errorf("RegistrationNumber = %q", v.RegistrationNumber)
	}
	if v.VATNumber != "NL123456789B01" {
		t.Errorf("VATNumber = %q", v.VATNumber)
	}
	if v.IBAN != "NL91ABNA0417164300" {
		t.Errorf("IBAN = %q, want normalized NL91ABNA0417164300", v.IBAN)
	}
	if v.Address.Street != "Hoofdstraat" || v.Address.HouseNumber != "12" {
		t.Errorf("street = %q %q, want Hoofdstraat 12", v.Address.Street, v.Address.HouseNumber)
	}
	if v.Address.PostalCode != "1234 AB" {
		t.Errorf("PostalCode = %q, want 1234 AB", v.Address.PostalCode)
	}
	if v.Address.City != "Amsterdam" {
		t.Errorf("City = %q, want Amsterdam", v.Address.City)
	}
}

func TestExtractVendorAbsentFields(t *testing.T) {
	text := "Los tekstje\nzonder bedrijf"
	record := &models.InvoiceRecord{}
	lines := NormalizeLines(text)
	New(Config{}).extractVendor(record, text, lines, AnalyzeSections(lines))

	v := record.Vendor
	if v.Email != "" || v.VATNumber != "" || v.IBAN != "" {
		t.Errorf("expected contact fields empty, got %+v", v)
	}
}
