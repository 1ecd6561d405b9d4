package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"insights/internal/logger"
	"insights/internal/server"
)

var version = server.Version

var rootCmd = &cobra.Command{
	Use:   "insights",
	Short: "Insights - structured extraction for retail media briefs",
	Long: `Insights extracts structured information from retail media documents
such as creative briefs, ad specifications and brand guidelines.

It reads PDF and DOCX files and returns technical specs, brand guidelines,
KPIs, deadlines, action items, warnings and creative requirements as JSON,
from the command line or over HTTP.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("Insights CLI executed")

		fmt.Println("Welcome to Insights!")
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
