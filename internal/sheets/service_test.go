package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"insights/pkg/models"
)

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := ExtractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-d_9", id)

	_, err = ExtractSpreadsheetID("https://example.com/sheet")
	assert.ErrorIs(t, err, ErrInvalidSheetURL)
}

func TestNewService_MissingCredentials(t *testing.T) {
	_, err := NewService(context.Background(), "https://docs.google.com/spreadsheets/d/abc/edit", "", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func sampleEntries() []Entry {
	ctr := "2%"
	return []Entry{
		{
			Filename: "brief.pdf",
			Status:   "success",
			Insights: &models.InsightsResult{
				Summary:      "Launch Sparkle Soda at Target.",
				DocumentType: models.DocumentType{Type: "Creative Brief", Confidence: 0.67},
				TechnicalSpecs: models.TechnicalSpecs{
					Dimensions: []string{"300x250", "728x90"},
					Formats:    []string{"PNG"},
				},
				KPIs:      models.KPIs{{Name: "CTR", Value: &ctr}, {Name: "ROAS"}},
				Deadlines: []models.Deadline{{Date: "2024-06-01"}, {Date: "2024-07-01"}},
				ActionItems: []models.ActionItem{
					{Task: "Logo must be visible.", Priority: models.PriorityHigh},
					{Task: "Consider a QR code.", Priority: models.PriorityLow},
				},
				Warnings: []models.Warning{{Message: "Alcohol imagery is prohibited.", Severity: models.SeverityHigh}},
			},
		},
		{Filename: "broken.docx", Status: "error", Error: "invalid or corrupted document"},
	}
}

func TestToRows(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	rows := ToRows(sampleEntries(), at)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{
		Filename:     "brief.pdf",
		Status:       "success",
		DocumentType: "Creative Brief",
		Confidence:   0.67,
		Summary:      "Launch Sparkle Soda at Target.",
		Dimensions:   "300x250, 728x90",
		Formats:      "PNG",
		KPIs:         "CTR 2%, ROAS",
		NextDeadline: "2024-06-01",
		ActionItems:  2,
		HighPriority: 1,
		Warnings:     1,
		HighSeverity: 1,
		ProcessedAt:  "2024-05-01 09:30:00",
	}, rows[0])

	assert.Equal(t, "invalid or corrupted document", rows[1].Error)
	assert.Empty(t, rows[1].DocumentType)
	assert.Len(t, rows[1].Values(), len(headers))
}

func TestWriteResults(t *testing.T) {
	var (
		mu           sync.Mutex
		batchUpdates int
		headerRow    []interface{}
		appended     [][]interface{}
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case r.Method == http.MethodGet && path == "/v4/spreadsheets/abc":
			_, _ = w.Write([]byte(`{"spreadsheetId":"abc","sheets":[{"properties":{"title":"Other","sheetId":1}}]}`))
		case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
			batchUpdates++
			_, _ = w.Write([]byte(`{"replies":[{"addSheet":{"properties":{"title":"Insights","sheetId":7}}}]}`))
		case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
			var body sheets.ValueRange
			if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) && assert.Len(t, body.Values, 1) {
				headerRow = body.Values[0]
			}
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
			var body sheets.ValueRange
			if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
				appended = body.Values
			}
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	s := NewServiceWithClient(client, "abc")
	require.NoError(t, s.WriteResults(context.Background(), sampleEntries(), ""))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, batchUpdates)
	require.Len(t, headerRow, len(headers))
	assert.Equal(t, "File", headerRow[0])
	require.Len(t, appended, 2)
	assert.Equal(t, "brief.pdf", appended[0][0])
	assert.Equal(t, "broken.docx", appended[1][0])
}
