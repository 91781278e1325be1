package extract

import (
	"testing"

	"factuurscan/pkg/models"
)

func runPayment(t *testing.T, text string) models.PaymentInfo {
	t.Helper()
	record := &models.InvoiceRecord{}
	lines := NormalizeLines(text)
	New(Config{}).extractPayment(record, text, lines, AnalyzeSections(lines))
	return record.Payment
}

func TestExtractPaymentDutchTerms(t *testing.T) {
	p := runPayment(t, "Betaling binnen 30 dagen op IBAN NL91 ABNA 0417 1643 00")

	if p.PaymentTerms != "30 days" {
		t.Errorf("PaymentTerms = %q, want 30 days", p.PaymentTerms)
	}
	if p.IBAN != "NL91ABNA0417164300" {
		t.Errorf("IBAN = %q, want normalized NL91ABNA0417164300", p.IBAN)
	}
}

func TestExtractPaymentEnglishTerms(t *testing.T) {
	p := runPayment(t, "Payment within 14 days by bank transfer")

	if p.PaymentTerms != "14 days" {
		t.Errorf("PaymentTerms = %q, want 14 days", p.PaymentTerms)
	}
	if p.PaymentMethod != "bank transfer" {
		t.Errorf("PaymentMethod = %q, want bank transfer", p.PaymentMethod)
	}
}

func TestExtractPaymentNetDays(t *testing.T) {
	p := runPayment(t, "Payment terms: net 30 days")

	if p.PaymentTerms != "30 days" {
		t.Errorf("PaymentTerms = %q, want 30 days", p.PaymentTerms)
	}
}

func TestExtractPaymentBICAndReference(t *testing.T) {
	text := "Betalingskenmerk: 2024-0091-NL\nBIC: ABNANL2A\nIBAN NL91 ABNA 0417 1643 00"
	p := runPayment(t, text)

	if p.BIC != "ABNANL2A" {
		t.Errorf("BIC = %q, want ABNANL2A", p.BIC)
	}
	if p.PaymentReference != "2024-0091-NL" {
		t.Errorf("PaymentReference = %q, want 2024-0091-NL", p.PaymentReference)
	}
}

func TestExtractPaymentMethodIdeal(t *testing.T) {
	p := runPayment(t, "Betalen via iDEAL of overboeking")

	if p.PaymentMethod != "ideal" {
		t.Errorf("PaymentMethod = %q, want ideal", p.PaymentMethod)
	}
}

func TestExtractPaymentAbsent(t *testing.T) {
	p := runPayment(t, "niets over betalen hier")

	if p.PaymentTerms != "" || p.IBAN != "" || p.BIC != "" {
		t.Errorf("expected empty payment info, got %+v", p)
	}
}
