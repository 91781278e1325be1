package extract

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"factuurscan/pkg/models"
)

const sampleInvoice = `TechSupplies B.V.
Hoofdstraat 12
1234 AB Amsterdam
KvK: 12345678
BTW-nummer: NL123456789B01
Factuurnummer: F2024-0091
Factuurdatum: 15-03-2024
Vervaldatum: 14-04-2024
Acme Consultancy
Klantnummer: K-552
Omschrijving Aantal Prijs Totaal
2 Onderhoud contract 49,50 99,00
1 Installatie 150,00 150,00
Totaal excl. btw € 249,00
btw 21% € 52,29
Totaal incl. btw € 301,29
Betaling binnen 30 dagen
IBAN NL91 ABNA 0417 1643 00`

func TestExtractFullInvoice(t *testing.T) {
	record := New(Config{}).Extract(sampleInvoice)

	if record.InvoiceNumber != "F2024-0091" {
		t.Errorf("InvoiceNumber = %q", record.InvoiceNumber)
	}
	if record.InvoiceDate != "15-03-2024" {
		t.Errorf("InvoiceDate = %q", record.InvoiceDate)
	}
	if record.DueDate != "14-04-2024" {
		t.Errorf("DueDate = %q", record.DueDate)
	}
	if record.Vendor.CompanyName != "TechSupplies B.V." {
		t.Errorf("Vendor.CompanyName = %q", record.Vendor.CompanyName)
	}
	if record.Customer.CompanyName != "Acme Consultancy" {
		t.Errorf("Customer.CompanyName = %q", record.Customer.CompanyName)
	}
	if record.Customer.CustomerNumber != "K-552" {
		t.Errorf("Customer.CustomerNumber = %q", record.Customer.CustomerNumber)
	}
	assertDecimal(t, "Subtotal", record.Financial.Subtotal, "249.00")
	assertDecimal(t, "TaxRate", record.Financial.TaxRate, "21")
	assertDecimal(t, "TotalAmount", record.Financial.TotalAmount, "301.29")
	if len(record.LineItems) != 2 {
		t.Fatalf("got %d line items, want 2", len(record.LineItems))
	}
	assertDecimal(t, "item 0 UnitPrice", record.LineItems[0].UnitPrice, "49.50")
	if record.Payment.PaymentTerms != "30 days" {
		t.Errorf("PaymentTerms = %q", record.Payment.PaymentTerms)
	}
	if record.Payment.IBAN != "NL91ABNA0417164300" {
		t.Errorf("Payment.IBAN = %q", record.Payment.IBAN)
	}
	if record.Vendor.IBAN != record.Payment.IBAN {
		t.Errorf("vendor and payment IBAN differ: %q vs %q", record.Vendor.IBAN, record.Payment.IBAN)
	}
	if record.Language != "nl" {
		t.Errorf("Language = %q, want nl", record.Language)
	}
	if record.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", record.Currency)
	}

	if quality := AssessQuality(record); !quality.Consistent {
		t.Errorf("record should reconcile cleanly, got warnings: %v", quality.Warnings)
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := New(Config{})

	first := e.Extract(sampleInvoice)
	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		again := e.Extract(sampleInvoice)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different record", i)
		}
		againJSON, err := json.Marshal(again)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(firstJSON, againJSON) {
			t.Fatalf("run %d produced different JSON", i)
		}
	}
}

func TestExtractEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t\n"} {
		record := New(Config{}).Extract(in)
		if record == nil {
			t.Fatal("Extract returned nil; an empty record was expected")
		}
		if record.InvoiceNumber != "" || len(record.LineItems) != 0 || record.Financial.TotalAmount.Valid {
			t.Errorf("Extract(%q) produced non-empty record: %+v", in, record)
		}
	}
}

func TestCrossFallbackIBANBothDirections(t *testing.T) {
	e := New(Config{})

	record := &models.InvoiceRecord{}
	record.Vendor.IBAN = "NL91ABNA0417164300"
	e.applyCrossFallbacks(record)
	if record.Payment.IBAN != "NL91ABNA0417164300" {
		t.Errorf("payment IBAN not filled from vendor: %q", record.Payment.IBAN)
	}

	record = &models.InvoiceRecord{}
	record.Payment.IBAN = "NL20INGB0001234567"
	e.applyCrossFallbacks(record)
	if record.Vendor.IBAN != "NL20INGB0001234567" {
		t.Errorf("vendor IBAN not filled from payment: %q", record.Vendor.IBAN)
	}
}

func TestNewFillsZeroConfig(t *testing.T) {
	e := New(Config{})
	def := DefaultConfig()
	if e.cfg.PrimaryLanguage != def.PrimaryLanguage || len(e.cfg.PrimaryKeywords) == 0 {
		t.Errorf("zero-value config not defaulted: %+v", e.cfg)
	}
	if !e.cfg.DefaultTaxRate.Equal(def.DefaultTaxRate) {
		t.Errorf("DefaultTaxRate = %s, want %s", e.cfg.DefaultTaxRate, def.DefaultTaxRate)
	}
}
