package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/bookpager/internal/pager"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Pagination. wordsPerPageRaw keeps the env text so Validate can
	// report a value that did not parse.
	WordsPerPage    int
	wordsPerPageRaw string

	// Pathstore publishing (optional; disabled when URL is empty)
	PathstoreURL         string
	PathstoreAPIKey      string
	MaxConcurrentPublish int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("BOOKPAGER_API_KEY"),

		WordsPerPage:    envInt("WORDS_PER_PAGE", pager.DefaultWordsPerPage),
		wordsPerPageRaw: os.Getenv("WORDS_PER_PAGE"),

		PathstoreURL:         os.Getenv("PATHSTORE_URL"),
		PathstoreAPIKey:      os.Getenv("PATHSTORE_API_KEY"),
		MaxConcurrentPublish: envInt("MAX_CONCURRENT_PUBLISH", 10),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentPublish <= 0 {
		cfg.MaxConcurrentPublish = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate reports missing secrets and an unusable page size. WordsPerPage
// is not defaulted in Load so that a bad value is surfaced, not hidden.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("BOOKPAGER_API_KEY is required")
	}
	if c.PathstoreURL != "" && c.PathstoreAPIKey == "" {
		return fmt.Errorf("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	if _, err := c.PageConfig(); err != nil {
		return err
	}
	return nil
}

// PageConfig returns the validated pagination settings. A WORDS_PER_PAGE
// that is not an integer is reported with its raw text rather than
// replaced by the default.
func (c Config) PageConfig() (pager.Config, error) {
	if raw := c.wordsPerPageRaw; raw != "" {
		if _, err := strconv.Atoi(raw); err != nil {
			return pager.Config{}, fmt.Errorf("WORDS_PER_PAGE: %w: must be an integer, got %q", pager.ErrInvalidConfiguration, raw)
		}
	}
	cfg := pager.Config{WordsPerPage: c.WordsPerPage}
	if err := cfg.Validate(); err != nil {
		return pager.Config{}, fmt.Errorf("WORDS_PER_PAGE: %w", err)
	}
	return cfg, nil
}

// PublishEnabled reports whether results should be written to pathstore.
func (c Config) PublishEnabled() bool {
	return c.PathstoreURL != ""
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
