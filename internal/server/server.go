// Package server exposes the insights pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"insights/internal/document"
	"insights/internal/logger"
	"insights/pkg/models"
	"insights/pkg/services"
)

const (
	// Version is reported by the health endpoints.
	Version = "1.0.0"

	serviceName = "AI-Powered Document Insight Extractor"
	uploadField = "file"
)

// Config configures the HTTP API
type Config struct {
	Addr        string
	MaxFileSize int64
}

// Server serves the document endpoints.
type Server struct {
	service services.InsightsService
	config  Config
	router  *gin.Engine
	log     zerolog.Logger
}

// New builds the router. Gin runs in release mode unless the global log level
// is debug or lower.
func New(service services.InsightsService, config Config) *Server {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = document.DefaultMaxFileSize
	}
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		service: service,
		config:  config,
		router:  gin.New(),
		log:     logger.WithComponent("server"),
	}
	s.router.MaxMultipartMemory = config.MaxFileSize + 1<<20
	s.router.Use(RequestID(), Logger(), Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/", s.root)
	s.router.GET("/health", s.health)

	api := s.router.Group("/api")
	{
		api.GET("/health", s.apiHealth)
		api.POST("/parse-document", s.parseDocument("Document parsed successfully"))
		api.POST("/analyze", s.parseDocument("Document analyzed successfully"))
		api.POST("/extract-insights", s.extractInsights)
	}
}

// Handler returns the HTTP handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.config.Addr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": serviceName + " API",
		"status":  "running",
		"version": Version,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) apiHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": Version,
		"endpoints": gin.H{
			"parse":            "/api/parse-document",
			"analyze":          "/api/analyze",
			"extract_insights": "/api/extract-insights",
		},
	})
}

type parseResponse struct {
	Success    bool   `json:"success"`
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
	FileType   string `json:"file_type"`
	TextLength int    `json:"text_length"`
	WordCount  int    `json:"word_count"`
	Text       string `json:"text"`
	Message    string `json:"message"`
}

type insightsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*models.InsightsResult
}

func (s *Server) parseDocument(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename, data, ok := s.readUpload(c)
		if !ok {
			return
		}

		result, err := s.service.ParseDocument(c.Request.Context(), data, filename)
		if err != nil {
			s.fail(c, err, filename, len(data))
			return
		}

		c.JSON(http.StatusOK, parseResponse{
			Success:    true,
			Filename:   filename,
			FileSize:   int64(len(data)),
			FileType:   strings.ToLower(filepath.Ext(filename)),
			TextLength: utf8.RuneCountInString(result.Text),
			WordCount:  result.WordCount,
			Text:       result.Text,
			Message:    message,
		})
	}
}

func (s *Server) extractInsights(c *gin.Context) {
	filename, data, ok := s.readUpload(c)
	if !ok {
		return
	}

	result, err := s.service.ExtractFromFile(c.Request.Context(), data, filename)
	if err != nil {
		s.fail(c, err, filename, len(data))
		return
	}

	c.JSON(http.StatusOK, insightsResponse{
		Success:        true,
		Message:        "Insights extracted successfully",
		InsightsResult: result,
	})
}

// readUpload reads the multipart file field. Oversized files are rejected
// before their content is read in full.
func (s *Server) readUpload(c *gin.Context) (string, []byte, bool) {
	header, err := c.FormFile(uploadField)
	if err != nil || header.Filename == "" {
		abort(c, http.StatusBadRequest, "No file provided. Please upload a PDF or DOCX file.")
		return "", nil, false
	}
	filename := filepath.Base(header.Filename)

	if document.FormatOf(filename) == "" {
		abort(c, http.StatusBadRequest, unsupportedDetail(filename))
		return "", nil, false
	}
	if header.Size > s.config.MaxFileSize {
		abort(c, http.StatusBadRequest, tooLargeDetail(header.Size, s.config.MaxFileSize))
		return "", nil, false
	}

	f, err := header.Open()
	if err != nil {
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.config.MaxFileSize+1))
	if err != nil {
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return "", nil, false
	}
	return filename, data, true
}

// fail maps pipeline errors to status codes: problems with the upload are
// 400, everything else is 500 with a generic detail.
func (s *Server) fail(c *gin.Context, err error, filename string, size int) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, document.ErrUnsupportedFormat):
		abort(c, http.StatusBadRequest, unsupportedDetail(filename))
	case errors.Is(err, document.ErrEmptyFile):
		abort(c, http.StatusBadRequest, "Uploaded file is empty. Please upload a valid PDF or DOCX file.")
	case errors.Is(err, document.ErrFileTooLarge):
		abort(c, http.StatusBadRequest, tooLargeDetail(int64(size), s.config.MaxFileSize))
	case errors.Is(err, document.ErrNoText):
		abort(c, http.StatusBadRequest, "Document contains no extractable text. Please ensure the document has readable content.")
	case errors.Is(err, document.ErrCorruptedDocument):
		abort(c, http.StatusBadRequest, "Unable to parse document. The file may be corrupted or in an unsupported format.")
	default:
		abort(c, http.StatusInternalServerError, "An error occurred while processing the document. Please try again or contact support if the problem persists.")
	}
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func unsupportedDetail(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = "unknown"
	}
	return fmt.Sprintf("Unsupported file format '%s'. Please upload a PDF (.pdf) or DOCX (.docx) file.", ext)
}

func tooLargeDetail(size, limit int64) string {
	const mb = 1024 * 1024
	return fmt.Sprintf("File size (%.2fMB) exceeds maximum allowed size of %.1fMB. Please upload a smaller file.",
		float64(size)/mb, float64(limit)/mb)
}
