package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_ReturnsExpectedDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultRegion != "us-east-1" {
		t.Errorf("DefaultRegion = %q, want %q", cfg.DefaultRegion, "us-east-1")
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, 15*time.Second)
	}
	if cfg.Endpoints.ManifestURL == "" {
		t.Error("Endpoints.ManifestURL should not be empty")
	}
	if !cfg.Audit.Enabled {
		t.Error("Audit.Enabled = false, want true")
	}
	if cfg.Audit.RingCapacity != 500 {
		t.Errorf("Audit.RingCapacity = %d, want %d", cfg.Audit.RingCapacity, 500)
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Metrics.Port = %d, want %d", cfg.Metrics.Port, 9090)
	}
	if cfg.Database.RetentionDays != 30 {
		t.Errorf("Database.RetentionDays = %d, want %d", cfg.Database.RetentionDays, 30)
	}
}

func TestDefaultConfig_Validate_ReturnsNil(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() returned error: %v", err)
	}
}

func TestLoadFromFile_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yamlContent := []byte(`defaultRegion: eu-west-1
defaultLocale: en_GB
`)
	if err := os.WriteFile(path, yamlContent, 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile(%q) returned error: %v", path, err)
	}

	if cfg.DefaultRegion != "eu-west-1" {
		t.Errorf("DefaultRegion = %q, want %q", cfg.DefaultRegion, "eu-west-1")
	}
	if cfg.DefaultLocale != "en_GB" {
		t.Errorf("DefaultLocale = %q, want %q", cfg.DefaultLocale, "en_GB")
	}
}

func TestLoadFromFile_MergesWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")

	yamlContent := []byte(`defaultRegion: ap-southeast-2
`)
	if err := os.WriteFile(path, yamlContent, 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile(%q) returned error: %v", path, err)
	}

	if cfg.DefaultRegion != "ap-southeast-2" {
		t.Errorf("DefaultRegion = %q, want %q", cfg.DefaultRegion, "ap-southeast-2")
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v, want default %v", cfg.HTTPTimeout, 15*time.Second)
	}
	if cfg.Fetch.MaxConcurrentTableFetches != 8 {
		t.Errorf("Fetch.MaxConcurrentTableFetches = %d, want default %d", cfg.Fetch.MaxConcurrentTableFetches, 8)
	}
}

func TestLoadFromFile_InvalidPath(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("LoadFromFile with invalid path expected error, got nil")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	badContent := []byte(`defaultRegion: [invalid
  yaml: {{broken
`)
	if err := os.WriteFile(path, badContent, 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	_, err := LoadFromFile(path)
	if err == nil {
		t.Fatal("LoadFromFile with invalid YAML expected error, got nil")
	}
}

func TestValidate_MissingRegion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultRegion = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() with missing region expected error, got nil")
	}
}

func TestValidate_MissingManifestURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endpoints.ManifestURL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() with missing manifestURL expected error, got nil")
	}
}

func TestValidate_NonPositiveTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTPTimeout = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() with zero httpTimeout expected error, got nil")
	}
}

func TestValidateDetailed_CollectsMultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultRegion = ""
	cfg.Endpoints.ManifestURL = ""
	cfg.Metrics.Port = 99999

	ve := ValidateDetailed(cfg)
	if ve == nil {
		t.Fatal("ValidateDetailed() expected errors, got nil")
	}
	if len(ve.Errors) < 3 {
		t.Errorf("ValidateDetailed() collected %d errors, want at least 3: %v", len(ve.Errors), ve.Errors)
	}
}

func TestValidateDetailed_PersistWithoutAuditEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = false
	cfg.Audit.Persist = true

	ve := ValidateDetailed(cfg)
	if ve == nil {
		t.Fatal("ValidateDetailed() expected error for persist without enabled audit, got nil")
	}
}

func TestValidateDetailed_ValidConfigReturnsNil(t *testing.T) {
	cfg := DefaultConfig()
	if ve := ValidateDetailed(cfg); ve != nil {
		t.Errorf("ValidateDetailed() on default config returned errors: %v", ve.Errors)
	}
}
