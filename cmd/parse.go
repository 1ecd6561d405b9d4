package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"insights/internal/logger"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extract plain text from a PDF or DOCX document",
	Long: `Parse a PDF or DOCX document and print its text.

PDFs are read locally. Set PDF_BACKEND=vision or PDF_BACKEND=documentai to use
Google Cloud OCR instead, or OCR_FALLBACK=true to use OCR only for PDFs
without a text layer.

Required environment variables for OCR:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_PROJECT_ID, DOCUMENT_AI_PROCESSOR_ID - for PDF_BACKEND=documentai`,
	Example: `  # Print the text of a brief
  insights parse brief.pdf

  # Output text with word and page counts as JSON
  insights parse brief.docx --json -o parsed.json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().Bool("json", false, "Output as JSON")
	parseCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("parse")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	path := args[0]

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	data, err := readDocumentFile(path, cfg.MaxFileSize, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	p, err := createPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer p.Close()

	result, err := p.service.ParseDocument(ctx, data, filepath.Base(path))
	if err != nil {
		return handleDocumentError(err, log)
	}

	log.Info().
		Str("method", result.Method).
		Int("pages", result.PageCount).
		Int("words", result.WordCount).
		Msg("Document parsed successfully")

	if !jsonOutput {
		return writeOutput([]byte(result.Text), outputPath, log)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	return writeOutput(out, outputPath, log)
}
