package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "WORKER_COUNT", "MAX_QUEUE_SIZE", "MAX_UPLOAD_BYTES",
		"MAX_SLIDE_UNITS", "MAX_SLIDE_ITEMS", "PREVIEW_WIDTH", "JOB_TTL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.WorkerCount)
	}
	if cfg.MaxSlideUnits != 220 || cfg.MaxSlideItems != 4 {
		t.Errorf("unexpected slide batching defaults %d/%d", cfg.MaxSlideUnits, cfg.MaxSlideItems)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.JobTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_SLIDE_ITEMS", "6")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("PREVIEW_FONT", "Noto Sans CJK TC")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.MaxSlideItems != 6 {
		t.Errorf("expected 6 items, got %d", cfg.MaxSlideItems)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.JobTTL)
	}
	if cfg.PreviewFont != "Noto Sans CJK TC" {
		t.Errorf("unexpected preview font %q", cfg.PreviewFont)
	}
}

func TestValidate_RequiresAPIKey(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing API key")
	}
	cfg.DeckgenAPIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPaths_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Paths{
		LastDocument: "/tmp/report.txt",
		LastTemplate: "/tmp/corporate.pptx",
		LastOutput:   "/tmp/report.pptx",
		FontName:     "標楷體",
	}
	if err := SavePaths(p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := LoadPaths()
	if got != p {
		t.Errorf("expected %+v, got %+v", p, got)
	}

	home, _ := os.UserHomeDir()
	if _, err := os.Stat(filepath.Join(home, pathsFile)); err != nil {
		t.Errorf("expected record file in home dir: %v", err)
	}
}

func TestLoadPaths_MissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	got := LoadPaths()
	if got != (Paths{}) {
		t.Errorf("expected empty paths, got %+v", got)
	}
}

func TestLoadPaths_CorruptFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, pathsFile), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	got := LoadPaths()
	if got != (Paths{}) {
		t.Errorf("expected empty paths for corrupt record, got %+v", got)
	}
}
