// Package extract turns noisy OCR-recovered invoice text into a structured
// InvoiceRecord.
//
// The pipeline is purely lexical and heuristic: normalize the text into
// lines, classify each line into semantic sections, then run a fixed set of
// field extractors over the classification. Extraction is best-effort by
// design; any field that cannot be located is simply left unset. The whole
// pipeline is a pure function of its input text: no I/O, no shared state,
// and calls for different documents are safe to run concurrently.
//
// Extractor order is fixed because of two documented cross-references: the
// vendor IBAN feeds the payment record and the document subtotal feeds the
// single-unpriced-line-item fallback. Both are applied in a late fallback
// pass over the fully built record rather than interleaved with extraction.
package extract

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"factuurscan/internal/logger"
	"factuurscan/pkg/models"
)

// Config holds the locale constants of the pipeline. The keyword sets and
// the default tax rate are configuration, not input: they are fixed per
// Extractor and overridable only at construction.
type Config struct {
	// PrimaryLanguage / SecondaryLanguage are the language codes reported
	// by the locale detector ("nl" / "en").
	PrimaryLanguage   string
	SecondaryLanguage string

	// PrimaryKeywords / SecondaryKeywords are the lexical markers whose
	// presence classifies the document language.
	PrimaryKeywords   []string
	SecondaryKeywords []string

	// DefaultTaxRate is the standard rate of the issuing jurisdiction,
	// assumed when a total is known but no rate was captured.
	DefaultTaxRate decimal.Decimal
}

// DefaultConfig returns the Dutch/English configuration with the Dutch
// standard VAT rate of 21%.
func DefaultConfig() Config {
	return Config{
		PrimaryLanguage:   "nl",
		SecondaryLanguage: "en",
		PrimaryKeywords:   []string{"factuur", "btw", "totaal", "klant", "betaling", "bedrag", "vervaldatum"},
		SecondaryKeywords: []string{"invoice", "vat", "total", "customer", "payment", "amount", "due date"},
		DefaultTaxRate:    decimal.NewFromInt(21),
	}
}

// Extractor runs the extraction pipeline. Safe for concurrent use; it
// holds only immutable configuration.
type Extractor struct {
	cfg Config
	log zerolog.Logger
}

// New creates an Extractor with the given configuration. Zero-value
// keyword sets and tax rate fall back to DefaultConfig values.
func New(cfg Config) *Extractor {
	def := DefaultConfig()
	if cfg.PrimaryLanguage == "" {
		cfg.PrimaryLanguage = def.PrimaryLanguage
	}
	if cfg.SecondaryLanguage == "" {
		cfg.SecondaryLanguage = def.SecondaryLanguage
	}
	if len(cfg.PrimaryKeywords) == 0 {
		cfg.PrimaryKeywords = def.PrimaryKeywords
	}
	if len(cfg.SecondaryKeywords) == 0 {
		cfg.SecondaryKeywords = def.SecondaryKeywords
	}
	if cfg.DefaultTaxRate.IsZero() {
		cfg.DefaultTaxRate = def.DefaultTaxRate
	}
	return &Extractor{
		cfg: cfg,
		log: logger.WithComponent("extract"),
	}
}

// Extract runs the full pipeline over one OCR text blob and returns the
// structured record. A mostly-empty record is success, not failure; the
// only short-circuit is empty input, which returns an empty record without
// running the pipeline.
func (e *Extractor) Extract(text string) *models.InvoiceRecord {
	record := &models.InvoiceRecord{}

	if strings.TrimSpace(text) == "" {
		return record
	}

	lines := NormalizeLines(text)
	record.RawLines = lines
	sections := AnalyzeSections(lines)

	e.log.Debug().
		Int("lines", len(lines)).
		Int("header_lines", len(sections.Lines(SectionHeader))).
		Int("totals_lines", len(sections.Lines(SectionTotals))).
		Msg("sections analyzed")

	// Each stage writes into its own part of the record; a fault in one
	// stage costs only that stage's fields, never the whole extraction.
	e.runStage("basic_info", func() { e.extractBasicInfo(record, text, lines, sections) })
	e.runStage("vendor", func() { e.extractVendor(record, text, lines, sections) })
	e.runStage("customer", func() { e.extractCustomer(record, lines, sections) })
	e.runStage("financial", func() { e.extractFinancial(record, lines, sections) })
	e.runStage("line_items", func() { e.extractLineItems(record, lines, sections) })
	e.runStage("payment", func() { e.extractPayment(record, text, lines, sections) })

	e.runStage("cross_fallbacks", func() { e.applyCrossFallbacks(record) })
	e.runStage("locale", func() { e.detectLocale(record, text) })

	return record
}

// runStage executes one pipeline stage, converting any panic from a
// parsing primitive into a logged partial result.
func (e *Extractor) runStage(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn().
				Str("stage", name).
				Interface("panic", r).
				Msg("extraction stage failed, fields left unset")
		}
	}()
	fn()
}

// applyCrossFallbacks resolves the two documented cross-field dependencies
// over the fully built record graph:
//
//  1. IBAN: vendor and payment share whichever of the two was found.
//  2. When exactly one line item still lacks a unit price and the document
//     subtotal is known, that subtotal becomes the item's unit price and
//     its line total is recomputed. This resolves the common
//     single-line-item invoice whose price only appears in the totals
//     block.
func (e *Extractor) applyCrossFallbacks(record *models.InvoiceRecord) {
	if record.Payment.IBAN == "" && record.Vendor.IBAN != "" {
		record.Payment.IBAN = record.Vendor.IBAN
	}
	if record.Vendor.IBAN == "" && record.Payment.IBAN != "" {
		record.Vendor.IBAN = record.Payment.IBAN
	}

	if !record.Financial.Subtotal.Valid {
		return
	}
	unpriced := -1
	for i := range record.LineItems {
		if !record.LineItems[i].UnitPrice.Valid {
			if unpriced != -1 {
				return // more than one, ambiguous
			}
			unpriced = i
		}
	}
	if unpriced == -1 {
		return
	}
	item := &record.LineItems[unpriced]
	item.UnitPrice = present(record.Financial.Subtotal.Decimal)
	qty := decimal.NewFromInt(1)
	if item.Quantity.Valid {
		qty = item.Quantity.Decimal
	}
	item.LineTotal = present(item.UnitPrice.Decimal.Mul(qty))
	e.log.Debug().Int("item", unpriced).Msg("assigned document subtotal to single unpriced line item")
}
