package config

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/bookpager/internal/pager"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOOKPAGER_API_KEY", "k")
	t.Setenv("WORDS_PER_PAGE", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("PATHSTORE_URL", "")

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.WordsPerPage != pager.DefaultWordsPerPage {
		t.Errorf("expected %d words per page, got %d", pager.DefaultWordsPerPage, cfg.WordsPerPage)
	}
	if cfg.WorkerCount != 4 || cfg.JobTTL != time.Hour {
		t.Errorf("unexpected pool defaults: workers=%d ttl=%s", cfg.WorkerCount, cfg.JobTTL)
	}
	if cfg.PublishEnabled() {
		t.Error("expected publishing to be off without PATHSTORE_URL")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORDS_PER_PAGE", "100")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("WORKER_COUNT", "-3")

	cfg := Load()
	if cfg.WordsPerPage != 100 {
		t.Errorf("expected 100 words per page, got %d", cfg.WordsPerPage)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %s", cfg.JobTTL)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback to be disabled")
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected invalid worker count to fall back to 4, got %d", cfg.WorkerCount)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{APIKey: "k", WordsPerPage: 250}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing api key", func(c *Config) { c.APIKey = "" }, true},
		{"pathstore without key", func(c *Config) { c.PathstoreURL = "http://ps" }, true},
		{"pathstore with key", func(c *Config) { c.PathstoreURL = "http://ps"; c.PathstoreAPIKey = "p" }, false},
		{"zero words per page", func(c *Config) { c.WordsPerPage = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_WordsPerPageWrapsSentinel(t *testing.T) {
	err := Config{APIKey: "k", WordsPerPage: -5}.Validate()
	if !errors.Is(err, pager.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestValidate_NonIntegerWordsPerPage(t *testing.T) {
	t.Setenv("BOOKPAGER_API_KEY", "k")
	for _, raw := range []string{"abc", "2.5", " 100"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("WORDS_PER_PAGE", raw)
			err := Load().Validate()
			if !errors.Is(err, pager.ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
			if !strings.Contains(err.Error(), fmt.Sprintf("%q", raw)) {
				t.Errorf("expected error to quote %q, got %v", raw, err)
			}
		})
	}
}

func TestPageConfig(t *testing.T) {
	t.Setenv("WORDS_PER_PAGE", "120")
	cfg, err := Load().PageConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WordsPerPage != 120 {
		t.Errorf("expected 120 words per page, got %d", cfg.WordsPerPage)
	}
}
