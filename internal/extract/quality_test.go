package extract

import (
	"testing"

	"github.com/shopspring/decimal"

	"factuurscan/pkg/models"
)

func nd(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q", s)
	}
	return present(v)
}

func TestAssessQualityConsistent(t *testing.T) {
	record := &models.InvoiceRecord{
		InvoiceNumber: "F2024-0091",
		Financial: models.FinancialInfo{
			Subtotal:    nd(t, "100.00"),
			TaxAmount:   nd(t, "21.00"),
			TaxRate:     nd(t, "21"),
			TotalAmount: nd(t, "121.00"),
		},
	}
	report := AssessQuality(record)
	if !report.Consistent {
		t.Errorf("expected consistent, got warnings: %v", report.Warnings)
	}
}

func TestAssessQualityAmountMismatch(t *testing.T) {
	record := &models.InvoiceRecord{
		Financial: models.FinancialInfo{
			Subtotal:    nd(t, "100.00"),
			TaxAmount:   nd(t, "21.00"),
			TotalAmount: nd(t, "130.00"),
		},
	}
	report := AssessQuality(record)
	if report.Consistent || len(report.Warnings) == 0 {
		t.Error("expected an amount mismatch warning")
	}
}

func TestAssessQualityRoundingTolerated(t *testing.T) {
	// One cent of rounding slack must not be flagged.
	record := &models.InvoiceRecord{
		Financial: models.FinancialInfo{
			Subtotal:    nd(t, "100.00"),
			TaxAmount:   nd(t, "21.01"),
			TotalAmount: nd(t, "121.00"),
		},
	}
	if report := AssessQuality(record); !report.Consistent {
		t.Errorf("one cent off should pass, got: %v", report.Warnings)
	}
}

func TestAssessQualityLineItemSum(t *testing.T) {
	record := &models.InvoiceRecord{
		Financial: models.FinancialInfo{Subtotal: nd(t, "249.00")},
		LineItems: []models.LineItem{
			{LineTotal: nd(t, "99.00")},
			{LineTotal: nd(t, "100.00")}, // sums to 199, not 249
		},
	}
	report := AssessQuality(record)
	if report.Consistent {
		t.Error("expected a line item sum warning")
	}
}

func TestAssessQualityPartialItemsProveNothing(t *testing.T) {
	record := &models.InvoiceRecord{
		Financial: models.FinancialInfo{Subtotal: nd(t, "249.00")},
		LineItems: []models.LineItem{
			{LineTotal: nd(t, "99.00")},
			{Description: "zonder totaal"},
		},
	}
	if report := AssessQuality(record); !report.Consistent {
		t.Errorf("partially priced items must not warn, got: %v", report.Warnings)
	}
}

func TestAssessQualityMissingFields(t *testing.T) {
	report := AssessQuality(&models.InvoiceRecord{})
	if !report.Consistent {
		t.Error("an empty record has nothing to be inconsistent about")
	}
	want := map[string]bool{
		"invoice_number":         true,
		"financial.total_amount": true,
		"line_items":             true,
	}
	for _, f := range report.MissingFields {
		delete(want, f)
	}
	if len(want) != 0 {
		t.Errorf("missing fields not reported: %v (got %v)", want, report.MissingFields)
	}
}
