package config

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation errors so a misconfigured
// deployment gets one complete report instead of a fix-one-rerun loop.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: %s", strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Add(msg string) {
	e.Errors = append(e.Errors, msg)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateDetailed performs comprehensive config validation beyond the basic
// Validate() checks.
func ValidateDetailed(cfg *Config) *ValidationError {
	ve := &ValidationError{}

	if cfg.DefaultRegion == "" {
		ve.Add("defaultRegion is required")
	}
	if cfg.DefaultLocale == "" {
		ve.Add("defaultLocale is required")
	}
	if cfg.HTTPTimeout <= 0 {
		ve.Add("httpTimeout must be > 0")
	}

	if cfg.Endpoints.ManifestURL == "" {
		ve.Add("endpoints.manifestURL is required")
	}
	if cfg.Endpoints.ServiceBaseURL == "" {
		ve.Add("endpoints.serviceBaseURL is required")
	}
	if cfg.Endpoints.EstimateSaveURL == "" {
		ve.Add("endpoints.estimateSaveURL is required")
	}
	if cfg.Endpoints.EstimateLoadURL == "" {
		ve.Add("endpoints.estimateLoadURL is required")
	}

	if cfg.Fetch.MaxConcurrentTableFetches < 1 {
		ve.Add("fetch.maxConcurrentTableFetches must be >= 1")
	}

	if cfg.Audit.Enabled && cfg.Audit.RingCapacity < 1 {
		ve.Add("audit.ringCapacity must be >= 1 when audit is enabled")
	}
	if cfg.Audit.Persist && !cfg.Audit.Enabled {
		ve.Add("audit.persist requires audit.enabled")
	}
	if cfg.Audit.Persist && cfg.Database.Path == "" {
		ve.Add("database.path is required when audit.persist is true")
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			ve.Add("metrics.port must be between 1 and 65535")
		}
	}

	if cfg.Database.RetentionDays < 0 {
		ve.Add("database.retentionDays must be >= 0")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
