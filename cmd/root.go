package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"factuurscan/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "factuurscan",
	Short: "Factuurscan - extract structured data from scanned invoices",
	Long: `Factuurscan turns noisy OCR text from scanned invoices into a
structured record: invoice metadata, vendor and customer identity,
financial totals, payment details and line items.

Input is either a plain text file (OCR output you already have) or an
invoice image, which is first run through Google Cloud Vision. The
extraction itself is fully local and heuristic; missing fields are left
empty rather than treated as errors.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Factuurscan CLI executed")

		fmt.Println("Welcome to Factuurscan!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
