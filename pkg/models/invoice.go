package models

import "github.com/shopspring/decimal"

// InvoiceRecord is the structured result of one extraction call.
//
// Every field is optional: an absent value is expected output, not an error.
// Monetary and numeric fields use decimal.NullDecimal so "present" and
// "absent" are distinguishable; text fields use "" for "not found".
// A fresh record graph is built per extraction call and never shared.
type InvoiceRecord struct {
	// Document identifiers and dates (kept as the literal captured text,
	// date formats in OCR output are too inconsistent to normalize safely)
	InvoiceNumber string `json:"invoice_number,omitempty"`
	InvoiceDate   string `json:"invoice_date,omitempty"`
	DueDate       string `json:"due_date,omitempty"`
	OrderNumber   string `json:"order_number,omitempty"`
	Reference     string `json:"reference,omitempty"`

	// Locale classification
	Currency string `json:"currency,omitempty"` // ISO code (EUR, USD, GBP)
	Language string `json:"language,omitempty"` // "nl" or "en"

	Notes string `json:"notes,omitempty"`

	Vendor    VendorInfo    `json:"vendor"`
	Customer  CustomerInfo  `json:"customer"`
	Financial FinancialInfo `json:"financial"`
	Payment   PaymentInfo   `json:"payment"`
	LineItems []LineItem    `json:"line_items,omitempty"`

	// RawLines is the normalized line sequence the extractors operated on,
	// kept for diagnostics and re-extraction.
	RawLines []string `json:"raw_lines,omitempty"`
}

// VendorInfo identifies the issuing party.
type VendorInfo struct {
	CompanyName        string      `json:"company_name,omitempty"`
	ContactPerson      string      `json:"contact_person,omitempty"`
	Address            AddressInfo `json:"address"`
	Phone              string      `json:"phone,omitempty"`
	Email              string      `json:"email,omitempty"`
	Website            string      `json:"website,omitempty"`
	VATNumber          string      `json:"vat_number,omitempty"`
	RegistrationNumber string      `json:"registration_number,omitempty"`
	BankAccount        string      `json:"bank_account,omitempty"`
	IBAN               string      `json:"iban,omitempty"`
}

// CustomerInfo identifies the billed party.
type CustomerInfo struct {
	CompanyName    string      `json:"company_name,omitempty"`
	ContactPerson  string      `json:"contact_person,omitempty"`
	Address        AddressInfo `json:"address"`
	CustomerNumber string      `json:"customer_number,omitempty"`
	VATNumber      string      `json:"vat_number,omitempty"`
}

// AddressInfo holds a decomposed postal address. FullAddress is the
// undecomposed fallback when only a single address line was recognized.
type AddressInfo struct {
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	FullAddress string `json:"full_address,omitempty"`
}

// FinancialInfo holds the document-level amounts. After reconciliation,
// whenever Subtotal, TaxAmount and TotalAmount are all present they satisfy
// Subtotal + TaxAmount = TotalAmount within 0.01.
type FinancialInfo struct {
	Subtotal       decimal.NullDecimal `json:"subtotal"`
	TaxAmount      decimal.NullDecimal `json:"tax_amount"`
	TaxRate        decimal.NullDecimal `json:"tax_rate"`
	TotalAmount    decimal.NullDecimal `json:"total_amount"`
	TaxType        string              `json:"tax_type,omitempty"` // label as printed, e.g. "btw 21%"
	DiscountAmount decimal.NullDecimal `json:"discount_amount"`
	ShippingAmount decimal.NullDecimal `json:"shipping_amount"`
}

// LineItem is one purchased item row. Quantity is always present once the
// builder ran (default 1 when never observed). When an extracted LineTotal
// disagrees with Quantity*UnitPrice the extracted value is authoritative.
type LineItem struct {
	Description string              `json:"description,omitempty"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	Unit        string              `json:"unit,omitempty"`
	UnitPrice   decimal.NullDecimal `json:"unit_price"`
	TaxRate     decimal.NullDecimal `json:"tax_rate"`
	LineTotal   decimal.NullDecimal `json:"line_total"`
	ProductCode string              `json:"product_code,omitempty"`
}

// PaymentInfo holds payment instructions found anywhere in the document.
type PaymentInfo struct {
	PaymentTerms     string `json:"payment_terms,omitempty"` // canonical "<N> days"
	PaymentMethod    string `json:"payment_method,omitempty"`
	BankAccount      string `json:"bank_account,omitempty"`
	IBAN             string `json:"iban,omitempty"`
	BIC              string `json:"bic,omitempty"`
	PaymentReference string `json:"payment_reference,omitempty"`
}
