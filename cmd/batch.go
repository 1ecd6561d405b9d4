package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"insights/internal/document"
	"insights/internal/logger"
	"insights/internal/sheets"
	"insights/pkg/models"
	"insights/pkg/services"
)

var batchCmd = &cobra.Command{
	Use:   "batch [folder-path]",
	Short: "Extract insights from every PDF and DOCX in a folder",
	Long: `Process all PDF and DOCX documents in a folder (recursively) and extract
insights from each of them in parallel.

Every file gets a status: success, warning (parsed, but nothing was extracted)
or error. A JSON report with all results can be written with --output, and
--out-dir writes one insights JSON file per document, named after its path
inside the folder (a/brief.pdf -> a_brief.pdf.json). With --sheet, one
summary row per document is appended to a Google Sheet (service account
credentials from GOOGLE_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS).

Optional environment variables:
  BATCH_WORKERS - Number of parallel workers (default: 12)`,
	Example: `  # Process a folder of briefs
  insights batch ./briefs

  # Write a combined report
  insights batch ./briefs -o report.json

  # Write one JSON file per document
  insights batch ./briefs --out-dir ./insights

  # Append a summary row per document to a Google Sheet
  insights batch ./briefs --sheet "https://docs.google.com/spreadsheets/d/<id>/edit"`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// BatchResult represents the result of processing a single document
type BatchResult struct {
	Filename string                 `json:"filename"`
	Path     string                 `json:"path"`
	Status   string                 `json:"status"` // "success", "warning", "error"
	Error    string                 `json:"error,omitempty"`
	Insights *models.InsightsResult `json:"insights,omitempty"`
	Index    int                    `json:"-"` // Original order index
}

// WorkerJob represents a document processing job
type WorkerJob struct {
	FilePath string
	Index    int
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("output", "o", "", "Write a JSON report with all results")
	batchCmd.Flags().String("out-dir", "", "Write one <name>.json insights file per document")
	batchCmd.Flags().String("sheet", "", "Google Sheets URL to append one summary row per document")
	batchCmd.Flags().String("sheet-name", sheets.DefaultSheetName, "Sheet tab to write to")
	batchCmd.Flags().Int("workers", 0, "Number of parallel workers (default: BATCH_WORKERS)")
	batchCmd.Flags().Int("timeout", 1800, "Processing timeout in seconds for the whole batch")
	batchCmd.Flags().Bool("verbose", false, "Show detailed processing information")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("batch")

	folderPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	outDir, _ := cmd.Flags().GetString("out-dir")
	sheetURL, _ := cmd.Flags().GetString("sheet")
	sheetName, _ := cmd.Flags().GetString("sheet-name")
	workers, _ := cmd.Flags().GetInt("workers")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	verbose, _ := cmd.Flags().GetBool("verbose")

	folderInfo, err := os.Stat(folderPath)
	if err != nil {
		return fmt.Errorf("folder not found: %s", folderPath)
	}
	if !folderInfo.IsDir() {
		return fmt.Errorf("path is not a directory: %s", folderPath)
	}

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}

	log.Info().
		Str("folder", folderPath).
		Int("workers", workers).
		Str("output", outputPath).
		Str("out_dir", outDir).
		Msg("Starting batch processing")

	files, err := findDocumentFiles(folderPath)
	if err != nil {
		return fmt.Errorf("failed to find documents: %w", err)
	}
	if sheetURL != "" {
		if _, err := sheets.ExtractSpreadsheetID(sheetURL); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		fmt.Println("No PDF or DOCX files found in folder.")
		return nil
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	p, err := createPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("                         BATCH INSIGHT EXTRACTION")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Folder: %s\n", folderPath)
	fmt.Printf("Processing %d documents with %d parallel workers...\n\n", len(files), workers)

	start := time.Now()
	results := processDocumentsInParallel(ctx, files, p.service, cfg.MaxFileSize, workers, os.Stdout, log, verbose)

	successCount, warningCount, errorCount := countStatuses(results)
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("                 RESULT")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Successful: %d\n", successCount)
	if warningCount > 0 {
		fmt.Printf("With warnings: %d\n", warningCount)
	}
	if errorCount > 0 {
		fmt.Printf("Errors: %d\n", errorCount)
	}
	fmt.Println()

	if outDir != "" {
		if err := writeInsightFiles(results, folderPath, outDir, log); err != nil {
			return err
		}
	}
	if sheetURL != "" {
		if err := exportToSheet(ctx, sheetURL, sheetName, results, cfg.GoogleCredentials, cfg.GoogleCredentialsFile); err != nil {
			return err
		}
		fmt.Printf("Results written to Google Sheet (%s)\n", sheetName)
	}
	if outputPath != "" {
		report, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON report: %w", err)
		}
		if err := writeOutput(report, outputPath, log); err != nil {
			return err
		}
	}

	log.Info().
		Int("total", len(files)).
		Int("success", successCount).
		Int("warnings", warningCount).
		Int("errors", errorCount).
		Dur("duration", time.Since(start)).
		Msg("Batch processing completed")

	return nil
}

// findDocumentFiles finds all PDF and DOCX files below folderPath
func findDocumentFiles(folderPath string) ([]string, error) {
	var files []string

	err := filepath.Walk(folderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && document.FormatOf(info.Name()) != "" && !strings.HasPrefix(info.Name(), "~$") {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// processSingleDocument processes one file and returns its result
func processSingleDocument(ctx context.Context, path string, svc services.InsightsService, maxSize int64, log zerolog.Logger, verbose bool) BatchResult {
	result := BatchResult{
		Filename: filepath.Base(path),
		Path:     path,
		Status:   "error",
	}

	data, err := readDocumentFile(path, maxSize, log)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	insights, err := svc.ExtractFromFile(ctx, data, result.Filename)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Insights = insights
	result.Status = "success"
	if isEmptyResult(insights) {
		result.Status = "warning"
	}

	if verbose {
		log.Info().
			Str("file", result.Filename).
			Str("document_type", insights.DocumentType.Type).
			Int("dimensions", len(insights.TechnicalSpecs.Dimensions)).
			Int("kpis", len(insights.KPIs)).
			Int("deadlines", len(insights.Deadlines)).
			Int("action_items", len(insights.ActionItems)).
			Int("warnings", len(insights.Warnings)).
			Msg("Document processed successfully")
	}

	return result
}

// isEmptyResult reports whether no category produced anything
func isEmptyResult(r *models.InsightsResult) bool {
	return len(r.CreativeRequirements.MustHave) == 0 &&
		len(r.CreativeRequirements.Optional) == 0 &&
		len(r.TechnicalSpecs.Dimensions) == 0 &&
		len(r.TechnicalSpecs.Formats) == 0 &&
		len(r.TechnicalSpecs.FileSizes) == 0 &&
		len(r.BrandGuidelines.Colors) == 0 &&
		len(r.BrandGuidelines.Fonts) == 0 &&
		len(r.BrandGuidelines.Tone) == 0 &&
		len(r.KPIs) == 0 &&
		len(r.Deadlines) == 0 &&
		len(r.ActionItems) == 0 &&
		len(r.Warnings) == 0
}

// processDocumentsInParallel processes documents using a worker pool pattern
func processDocumentsInParallel(ctx context.Context, files []string, svc services.InsightsService, maxSize int64, numWorkers int, progress io.Writer, log zerolog.Logger, verbose bool) []BatchResult {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	jobs := make(chan WorkerJob, len(files))
	results := make([]BatchResult, len(files))

	var processedCount int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobs {
				log.Debug().
					Int("worker", workerID).
					Str("file", job.FilePath).
					Int("index", job.Index+1).
					Msg("Worker processing document")

				result := processSingleDocument(ctx, job.FilePath, svc, maxSize, log, verbose)
				result.Index = job.Index

				// Store result in correct position
				results[job.Index] = result

				mu.Lock()
				processedCount++
				fmt.Fprintf(progress, "[%d/%d] %s - %s", processedCount, len(files), result.Filename, getStatusEmoji(result.Status))
				if result.Error != "" {
					fmt.Fprintf(progress, " (%s)", result.Error)
				} else if result.Insights != nil {
					fmt.Fprintf(progress, " (%s)", result.Insights.DocumentType.Type)
				}
				fmt.Fprintln(progress)
				mu.Unlock()
			}
		}(w)
	}

	for i, file := range files {
		jobs <- WorkerJob{
			FilePath: file,
			Index:    i,
		}
	}
	close(jobs)

	wg.Wait()

	return results
}

// writeInsightFiles writes one JSON file per successful document. Names are
// the path relative to root with separators flattened and the extension kept,
// so "a/brief.pdf" becomes "a_brief.pdf.json".
func writeInsightFiles(results []BatchResult, root, outDir string, log zerolog.Logger) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	taken := make(map[string]bool)
	written := 0
	for _, result := range results {
		if result.Insights == nil {
			continue
		}
		data, err := json.MarshalIndent(result.Insights, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal insights for %s: %w", result.Filename, err)
		}
		name := insightFileName(result, root, taken)
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write insights for %s: %w", result.Filename, err)
		}
		written++
	}

	log.Info().
		Str("out_dir", outDir).
		Int("files", written).
		Msg("Insight files written")
	return nil
}

// insightFileName picks an unused output name for result and records it.
func insightFileName(result BatchResult, root string, taken map[string]bool) string {
	base := result.Filename
	if result.Path != "" {
		if rel, err := filepath.Rel(root, result.Path); err == nil && !strings.HasPrefix(rel, "..") {
			base = strings.ReplaceAll(filepath.ToSlash(rel), "/", "_")
		}
	}

	name := base + ".json"
	for i := 2; taken[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s_%d.json", base, i)
	}
	taken[strings.ToLower(name)] = true
	return name
}

// exportToSheet appends the batch results to a Google Sheet
func exportToSheet(ctx context.Context, sheetURL, sheetName string, results []BatchResult, credsJSON, credsFile string) error {
	svc, err := sheets.NewService(ctx, sheetURL, credsJSON, credsFile)
	if err != nil {
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}
	return svc.WriteResults(ctx, sheetEntries(results), sheetName)
}

func sheetEntries(results []BatchResult) []sheets.Entry {
	entries := make([]sheets.Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, sheets.Entry{
			Filename: r.Filename,
			Status:   r.Status,
			Error:    r.Error,
			Insights: r.Insights,
		})
	}
	return entries
}

func countStatuses(results []BatchResult) (success, warning, failed int) {
	for _, result := range results {
		switch result.Status {
		case "success":
			success++
		case "warning":
			warning++
		case "error":
			failed++
		}
	}
	return success, warning, failed
}

// getStatusEmoji returns an emoji for the processing status
func getStatusEmoji(status string) string {
	switch status {
	case "success":
		return "✅"
	case "warning":
		return "⚠️"
	case "error":
		return "❌"
	default:
		return "❓"
	}
}
