package extract

import (
	"fmt"

	"github.com/shopspring/decimal"

	"factuurscan/pkg/models"
)

// amountTolerance is the rounding slack allowed when cross-checking
// amounts, two cents.
var amountTolerance = decimal.New(2, -2)

// QualityReport summarizes how internally consistent and complete an
// extracted record is. Warnings flag arithmetic that does not add up;
// MissingFields lists key fields the pipeline could not locate. Neither is
// an error: a sparse or inconsistent record is still a valid result.
type QualityReport struct {
	Warnings      []string `json:"warnings,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
	Consistent    bool     `json:"consistent"`
}

// AssessQuality cross-checks the amounts in a record and reports which key
// fields are absent.
func AssessQuality(record *models.InvoiceRecord) *QualityReport {
	report := &QualityReport{Consistent: true}

	fin := record.Financial
	if fin.Subtotal.Valid && fin.TaxAmount.Valid && fin.TotalAmount.Valid {
		calculated := fin.Subtotal.Decimal.Add(fin.TaxAmount.Decimal)
		diff := calculated.Sub(fin.TotalAmount.Decimal).Abs()
		if diff.GreaterThan(amountTolerance) {
			report.warn("amount mismatch: subtotal(%s) + tax(%s) = %s, but total is %s",
				fin.Subtotal.Decimal, fin.TaxAmount.Decimal, calculated, fin.TotalAmount.Decimal)
		}
	}

	if fin.Subtotal.Valid && fin.TaxRate.Valid && fin.TaxAmount.Valid {
		expected := fin.Subtotal.Decimal.Mul(fin.TaxRate.Decimal).Div(decimal.NewFromInt(100)).Round(2)
		diff := expected.Sub(fin.TaxAmount.Decimal).Abs()
		if diff.GreaterThan(amountTolerance) {
			report.warn("tax mismatch: %s%% of subtotal %s is %s, but tax amount is %s",
				fin.TaxRate.Decimal, fin.Subtotal.Decimal, expected, fin.TaxAmount.Decimal)
		}
	}

	// Compare the line item sum against the subtotal when every item
	// carries a total; a partially priced item list proves nothing.
	if fin.Subtotal.Valid && len(record.LineItems) > 0 {
		sum := decimal.Zero
		complete := true
		for _, item := range record.LineItems {
			if !item.LineTotal.Valid {
				complete = false
				break
			}
			sum = sum.Add(item.LineTotal.Decimal)
		}
		if complete {
			diff := sum.Sub(fin.Subtotal.Decimal).Abs()
			if diff.GreaterThan(amountTolerance) {
				report.warn("line items sum to %s, but subtotal is %s", sum, fin.Subtotal.Decimal)
			}
		}
	}

	report.MissingFields = missingFields(record)
	return report
}

func (r *QualityReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
	r.Consistent = false
}

func missingFields(record *models.InvoiceRecord) []string {
	var missing []string
	if record.InvoiceNumber == "" {
		missing = append(missing, "invoice_number")
	}
	if record.InvoiceDate == "" {
		missing = append(missing, "invoice_date")
	}
	if record.Vendor.CompanyName == "" {
		missing = append(missing, "vendor.company_name")
	}
	if record.Customer.CompanyName == "" {
		missing = append(missing, "customer.company_name")
	}
	if !record.Financial.TotalAmount.Valid {
		missing = append(missing, "financial.total_amount")
	}
	if len(record.LineItems) == 0 {
		missing = append(missing, "line_items")
	}
	return missing
}
