package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"insights/internal/logger"
)

type Config struct {
	// HTTP API Configuration
	APIHost string
	APIPort int

	// Document Parsing Configuration
	MaxFileSize int64
	PDFBackend  string
	OCRFallback bool

	// Google Cloud Configuration
	GoogleCloudProject         string
	GoogleCloudLocation        string
	GoogleCredentials          string
	GoogleCredentialsFile      string
	DocumentAIProcessorID      string
	DocumentAIProcessorVersion string

	// Summary Configuration
	SummaryProvider   string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAITemperature float32
	OpenAIMaxRetries  int

	// Extraction Configuration
	RulesFile    string
	BatchWorkers int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

const (
	SummaryExtractive = "extractive"
	SummaryOpenAI     = "openai"
)

func Load() (*Config, error) {
	config := &Config{
		APIHost:                    getEnv("API_HOST", "0.0.0.0"),
		APIPort:                    getEnvInt("API_PORT", 8000),
		MaxFileSize:                int64(getEnvInt("MAX_FILE_SIZE", 10*1024*1024)),
		PDFBackend:                 strings.ToLower(getEnv("PDF_BACKEND", "local")),
		OCRFallback:                getEnvBool("OCR_FALLBACK", false),
		GoogleCloudProject:         getEnv("GOOGLE_PROJECT_ID", getEnv("GOOGLE_CLOUD_PROJECT", "")),
		GoogleCloudLocation:        getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		GoogleCredentials:          getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleCredentialsFile:      getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		DocumentAIProcessorID:      getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		DocumentAIProcessorVersion: getEnv("DOCUMENT_AI_PROCESSOR_VERSION", ""),
		SummaryProvider:            strings.ToLower(getEnv("SUMMARY_PROVIDER", SummaryExtractive)),
		OpenAIAPIKey:               getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:                getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAITemperature:          getEnvFloat("OPENAI_TEMPERATURE", 0.2),
		OpenAIMaxRetries:           getEnvInt("OPENAI_MAX_RETRIES", 3),
		RulesFile:                  getEnv("RULES_FILE", ""),
		BatchWorkers:               getEnvInt("BATCH_WORKERS", 12),
		LogLevel:                   getEnv("LOG_LEVEL", "info"),
		LogFormat:                  getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:              getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:                  getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("API_PORT must be between 1 and 65535, got %d", c.APIPort)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("BATCH_WORKERS must be positive")
	}

	switch c.PDFBackend {
	case "local":
	case "vision":
	case "documentai":
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_PROJECT_ID is required for PDF_BACKEND=documentai")
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required for PDF_BACKEND=documentai")
		}
	default:
		return fmt.Errorf("PDF_BACKEND must be one of local, vision, documentai, got %q", c.PDFBackend)
	}

	switch c.SummaryProvider {
	case SummaryExtractive:
	case SummaryOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for SUMMARY_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("SUMMARY_PROVIDER must be extractive or openai, got %q", c.SummaryProvider)
	}
	return nil
}

// NeedsOCR reports whether a Google Cloud OCR client has to be created.
func (c *Config) NeedsOCR() bool {
	return c.PDFBackend != "local" || c.OCRFallback
}

// OCRBackend returns the Google Cloud backend used for PDFs without a text
// layer. With a local PDF backend the fallback goes through Vision.
func (c *Config) OCRBackend() string {
	if c.PDFBackend == "local" {
		return "vision"
	}
	return c.PDFBackend
}

// Addr returns the listen address of the HTTP API.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
