package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"factuurscan/internal/extract"
	"factuurscan/internal/logger"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [text-file]",
	Short: "Show how invoice lines are classified into sections",
	Long: `Debug view of the structure analyzer: normalize the OCR text in the
given file and print each line together with the sections it was assigned
to. Lines can belong to several sections, or to none.`,
	Example: `  # Inspect the classification of a troublesome invoice
  factuurscan sections invoice.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("sections-cmd")

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("Failed to read text file")
		return fmt.Errorf("failed to read text file: %w", err)
	}

	lines := extract.NormalizeLines(string(data))
	sections := extract.AnalyzeSections(lines)

	all := []extract.Section{
		extract.SectionHeader,
		extract.SectionVendor,
		extract.SectionCustomer,
		extract.SectionInvoiceMeta,
		extract.SectionLineItems,
		extract.SectionTotals,
		extract.SectionPayment,
	}

	// Invert the section map into per-line tags.
	tags := make([][]string, len(lines))
	for _, s := range all {
		for _, idx := range sections.Lines(s) {
			tags[idx] = append(tags[idx], string(s))
		}
	}

	for i, line := range lines {
		tag := "-"
		if len(tags[i]) > 0 {
			tag = strings.Join(tags[i], ",")
		}
		fmt.Printf("%3d  %-40s  %s\n", i, tag, line)
	}

	return nil
}
