package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.ResponseType != "binary" {
		t.Errorf("expected default response type 'binary', got %q", cfg.ResponseType)
	}
	if cfg.Output != "-" {
		t.Errorf("expected default output '-', got %q", cfg.Output)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
url: https://example.com/seg.ts
range_start: 1KB
range_end: 2KB
timeout: 5s
response_type: text
progress: true
output: out.bin
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.URL != "https://example.com/seg.ts" {
		t.Errorf("unexpected URL %q", cfg.URL)
	}
	if cfg.RangeStart != 1024 || cfg.RangeEnd != 2048 {
		t.Errorf("unexpected range %d-%d", cfg.RangeStart, cfg.RangeEnd)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Timeout)
	}
	if cfg.ResponseType != "text" {
		t.Errorf("unexpected response type %q", cfg.ResponseType)
	}
	if !cfg.Progress {
		t.Error("expected progress enabled")
	}
	if cfg.Output != "out.bin" {
		t.Errorf("unexpected output %q", cfg.Output)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("range_start: sideways"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid range_start")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SIP_URL", "https://example.com/env.ts")
	t.Setenv("SIP_RANGE_START", "100")
	t.Setenv("SIP_RANGE_END", "200")
	t.Setenv("SIP_TIMEOUT", "2s")
	t.Setenv("SIP_RESPONSE_TYPE", "text")
	t.Setenv("SIP_PROGRESS", "1")
	t.Setenv("SIP_BUCKET", "mem://bucket")
	t.Setenv("SIP_OBJECT", "path/to/object")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.URL != "https://example.com/env.ts" {
		t.Errorf("unexpected URL %q", cfg.URL)
	}
	if cfg.RangeStart != 100 || cfg.RangeEnd != 200 {
		t.Errorf("unexpected range %d-%d", cfg.RangeStart, cfg.RangeEnd)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Timeout)
	}
	if !cfg.Progress {
		t.Error("expected progress enabled")
	}
	if cfg.Bucket != "mem://bucket" || cfg.Object != "path/to/object" {
		t.Errorf("unexpected bucket/object %q/%q", cfg.Bucket, cfg.Object)
	}
}

func TestLoadFromEnvInvalidTimeout(t *testing.T) {
	t.Setenv("SIP_TIMEOUT", "sideways")
	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for invalid SIP_TIMEOUT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing url", func(c *Config) { c.URL = "" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"inverted range", func(c *Config) { c.RangeStart = 200; c.RangeEnd = 100 }, true},
		{"negative range", func(c *Config) { c.RangeStart = -1 }, true},
		{"bad response type", func(c *Config) { c.ResponseType = "json" }, true},
		{"bucket without object", func(c *Config) { c.Bucket = "mem://b" }, true},
		{"object without bucket", func(c *Config) { c.Object = "o" }, true},
		{"bucket with object", func(c *Config) { c.Bucket = "mem://b"; c.Object = "o" }, false},
		{"valid range", func(c *Config) { c.RangeStart = 100; c.RangeEnd = 200 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.URL = "https://example.com/seg.ts"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	base.URL = "https://example.com/base.ts"

	merged := base.Merge(Config{
		URL:      "https://example.com/override.ts",
		RangeEnd: 500,
		Timeout:  10 * time.Second,
	})

	if merged.URL != "https://example.com/override.ts" {
		t.Errorf("unexpected URL %q", merged.URL)
	}
	if merged.RangeEnd != 500 {
		t.Errorf("unexpected range end %d", merged.RangeEnd)
	}
	if merged.Timeout != 10*time.Second {
		t.Errorf("unexpected timeout %v", merged.Timeout)
	}
	// Untouched fields survive.
	if merged.ResponseType != "binary" || merged.Output != "-" {
		t.Errorf("merge clobbered defaults: %+v", merged)
	}
}
