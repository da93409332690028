package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	DeckgenAPIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Output
	OutputDir string

	// Slide batching defaults
	MaxSlideUnits int
	MaxSlideItems int

	// Preview rendering
	PreviewWidth int
	PreviewFont  string

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DeckgenAPIKey: os.Getenv("DECKGEN_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 1),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		OutputDir: envOr("OUTPUT_DIR", "decks"),

		MaxSlideUnits: envInt("MAX_SLIDE_UNITS", 220),
		MaxSlideItems: envInt("MAX_SLIDE_ITEMS", 4),

		PreviewWidth: envInt("PREVIEW_WIDTH", 960),
		PreviewFont:  envOr("PREVIEW_FONT", "Microsoft JhengHei"),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxSlideUnits <= 0 {
		cfg.MaxSlideUnits = 220
	}
	if cfg.MaxSlideItems <= 0 {
		cfg.MaxSlideItems = 4
	}
	if cfg.PreviewWidth <= 0 {
		cfg.PreviewWidth = 960
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DeckgenAPIKey == "" {
		return fmt.Errorf("DECKGEN_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
