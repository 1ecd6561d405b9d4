// Package sheets exports batch extraction results to a Google Sheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"insights/internal/logger"
	"insights/pkg/models"
)

// DefaultSheetName is the tab used when none is given.
const DefaultSheetName = "Insights"

var (
	ErrInvalidSheetURL    = errors.New("invalid Google Sheets URL format")
	ErrMissingCredentials = errors.New("google credentials not configured")
)

var spreadsheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

var headers = []interface{}{
	"File", "Status", "Document Type", "Confidence", "Summary", "Dimensions", "Formats",
	"KPIs", "Next Deadline", "Action Items", "High Priority", "Warnings", "High Severity",
	"Error", "Processed At",
}

// Service handles Google Sheets operations
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// Entry is one processed document.
type Entry struct {
	Filename string
	Status   string
	Error    string
	Insights *models.InsightsResult
}

// Row represents a row to be written to the sheet
type Row struct {
	Filename     string
	Status       string
	DocumentType string
	Confidence   float64
	Summary      string
	Dimensions   string
	Formats      string
	KPIs         string
	NextDeadline string
	ActionItems  int
	HighPriority int
	Warnings     int
	HighSeverity int
	Error        string
	ProcessedAt  string
}

// NewService creates a Sheets client from service account credentials.
// credentialsJSON takes precedence over credentialsFile.
func NewService(ctx context.Context, sheetURL, credentialsJSON, credentialsFile string) (*Service, error) {
	const op = "NewService"

	spreadsheetID, err := ExtractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var creds []byte
	switch {
	case credentialsJSON != "":
		creds = []byte(credentialsJSON)
	case credentialsFile != "":
		creds, err = os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w: set GOOGLE_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS", op, ErrMissingCredentials)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return NewServiceWithClient(sheetsService, spreadsheetID), nil
}

// NewServiceWithClient wraps an existing Sheets client.
func NewServiceWithClient(sheetsService *sheets.Service, spreadsheetID string) *Service {
	log := logger.WithComponent("sheets")
	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Sheets exporter ready")

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func ExtractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDRe.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", ErrInvalidSheetURL
	}
	return matches[1], nil
}

// WriteResults appends one row per entry to sheetName, creating the tab and
// its header row when missing.
func (s *Service) WriteResults(ctx context.Context, entries []Entry, sheetName string) error {
	const op = "WriteResults"

	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	s.log.Info().
		Str("sheet", sheetName).
		Int("rows", len(entries)).
		Msg("Writing batch results to Google Sheet")

	if err := s.ensureSheetWithHeaders(ctx, sheetName); err != nil {
		return fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	var values [][]interface{}
	for _, row := range ToRows(entries, time.Now()) {
		values = append(values, row.Values())
	}

	_, err := s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		sheetName+"!"+columnRange(),
		&sheets.ValueRange{Values: values},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	s.log.Info().
		Int("rows_written", len(values)).
		Msg("Successfully wrote batch results to Google Sheet")

	return nil
}

// ToRows flattens entries into sheet rows.
func ToRows(entries []Entry, processedAt time.Time) []Row {
	stamp := processedAt.Format(time.DateTime)
	rows := make([]Row, 0, len(entries))

	for _, entry := range entries {
		row := Row{
			Filename:    entry.Filename,
			Status:      entry.Status,
			Error:       entry.Error,
			ProcessedAt: stamp,
		}

		if r := entry.Insights; r != nil {
			row.DocumentType = r.DocumentType.Type
			row.Confidence = r.DocumentType.Confidence
			row.Summary = r.Summary
			row.Dimensions = strings.Join(r.TechnicalSpecs.Dimensions, ", ")
			row.Formats = strings.Join(r.TechnicalSpecs.Formats, ", ")

			kpis := make([]string, 0, len(r.KPIs))
			for _, kpi := range r.KPIs {
				if kpi.Value != nil {
					kpis = append(kpis, kpi.Name+" "+*kpi.Value)
				} else {
					kpis = append(kpis, kpi.Name)
				}
			}
			row.KPIs = strings.Join(kpis, ", ")

			if len(r.Deadlines) > 0 {
				row.NextDeadline = r.Deadlines[0].Date
			}

			row.ActionItems = len(r.ActionItems)
			for _, item := range r.ActionItems {
				if item.Priority == models.PriorityHigh {
					row.HighPriority++
				}
			}
			row.Warnings = len(r.Warnings)
			for _, w := range r.Warnings {
				if w.Severity == models.SeverityHigh {
					row.HighSeverity++
				}
			}
		}

		rows = append(rows, row)
	}

	return rows
}

// Values converts the row to cell values in header order.
func (r Row) Values() []interface{} {
	return []interface{}{
		r.Filename,
		r.Status,
		r.DocumentType,
		r.Confidence,
		r.Summary,
		r.Dimensions,
		r.Formats,
		r.KPIs,
		r.NextDeadline,
		r.ActionItems,
		r.HighPriority,
		r.Warnings,
		r.HighSeverity,
		r.Error,
		r.ProcessedAt,
	}
}

// columnRange is A:<last column> for the header width.
func columnRange() string {
	return "A:" + string(rune('A'+len(headers)-1))
}

// ensureSheetWithHeaders ensures the sheet exists and has proper headers
func (s *Service) ensureSheetWithHeaders(ctx context.Context, sheetName string) error {
	const op = "ensureSheetWithHeaders"

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	var sheetID int64
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			sheetExists = true
			sheetID = sheet.Properties.SheetId
			break
		}
	}

	if !sheetExists {
		s.log.Info().Str("sheet", sheetName).Msg("Creating new sheet")

		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: sheetName}}},
			},
		}
		resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to create sheet: %w", op, err)
		}
		if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
			sheetID = resp.Replies[0].AddSheet.Properties.SheetId
		}
	}

	headerRange := fmt.Sprintf("%s!A1:%c1", sheetName, rune('A'+len(headers)-1))
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	s.log.Info().Str("sheet", sheetName).Msg("Adding headers to sheet")

	_, err = s.sheetsService.Spreadsheets.Values.Update(
		s.spreadsheetID,
		headerRange,
		&sheets.ValueRange{Values: [][]interface{}{headers}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to add headers: %w", op, err)
	}

	if err := s.formatHeaders(ctx, sheetID); err != nil {
		s.log.Warn().Err(err).Msg("Failed to format headers, continuing anyway")
	}

	return nil
}

// formatHeaders makes the header row bold and resizes the columns
func (s *Service) formatHeaders(ctx context.Context, sheetID int64) error {
	const op = "formatHeaders"

	width := int64(len(headers))
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   width,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat:      &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   width,
				},
			},
		},
	}

	_, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to format headers: %w", op, err)
	}
	return nil
}
