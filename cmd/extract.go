package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"insights/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract structured insights from a PDF or DOCX brief",
	Long: `Parse a retail media document and extract structured insights as JSON.

The result contains a summary, the document type, creative requirements,
technical specs, brand guidelines, KPIs, deadlines, action items, warnings
and file metadata. Extraction is rule based and deterministic: the same file
always produces the same JSON.

Optional environment variables:
  PDF_BACKEND      - local (default), vision or documentai
  OCR_FALLBACK     - Use Google Cloud Vision when a PDF has no text layer
  SUMMARY_PROVIDER - extractive (default) or openai (needs OPENAI_API_KEY)
  RULES_FILE       - TOML file extending the built-in keyword tables
  MAX_FILE_SIZE    - Maximum file size in bytes (default: 10MB)`,
	Example: `  # Print insights for a brief
  insights extract brief.pdf

  # Save insights to a file
  insights extract brief.docx -o insights.json

  # Use a custom rules file
  RULES_FILE=rules.toml insights extract brief.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().Bool("compact", false, "Write compact JSON instead of indented JSON")
	extractCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	compact, _ := cmd.Flags().GetBool("compact")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	path := args[0]

	log.Info().
		Str("file", path).
		Str("output", outputPath).
		Int("timeout", timeoutSecs).
		Msg("Starting insight extraction")

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
	defer func() {
		if closeErr := p.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close document parser")
		}
	}()

	start := time.Now()
	result, err := p.service.ExtractFromFile(ctx, data, filepath.Base(path))
	if err != nil {
		return handleDocumentError(err, log)
	}

	log.Info().
		Str("document_type", result.DocumentType.Type).
		Int("deadlines", len(result.Deadlines)).
		Int("action_items", len(result.ActionItems)).
		Dur("duration", time.Since(start)).
		Msg("Insight extraction completed successfully")

	var out []byte
	if compact {
		out, err = json.Marshal(result)
	} else {
		out, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON output")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	return writeOutput(out, outputPath, log)
}
