package pricing

import (
	"fmt"
	"net/http"
	"time"
)

// Engine ties the remote document fetcher, catalog, schema extractor,
// evaluator, and estimate assembler/loader together behind one constructor,
// so the tool surface has a single collaborator to hold.
type Engine struct {
	fetcher    *Fetcher
	httpClient *http.Client

	manifestURL          string
	serviceBaseURL       string
	estimateSaveURL      string
	estimateLoadURL      string
	defaultRegion        string
	maxConcurrentFetches int
}

// EngineConfig configures a new Engine. ManifestURL and ServiceBaseURL are
// required; the estimate save/load URLs are not checked here, and the
// remaining fields have sane zero-value fallbacks.
type EngineConfig struct {
	ManifestURL          string
	ServiceBaseURL       string
	EstimateSaveURL      string
	EstimateLoadURL      string
	DefaultRegion        string
	HTTPTimeout          time.Duration
	MaxConcurrentFetches int
}

// NewEngine builds an Engine from cfg.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.ManifestURL == "" || cfg.ServiceBaseURL == "" {
		return nil, fmt.Errorf("manifestURL and serviceBaseURL are required")
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	region := cfg.DefaultRegion
	if region == "" {
		region = "us-east-1"
	}

	return &Engine{
		fetcher:              NewFetcher(timeout),
		httpClient:           &http.Client{Timeout: timeout},
		manifestURL:          cfg.ManifestURL,
		serviceBaseURL:       cfg.ServiceBaseURL,
		estimateSaveURL:      cfg.EstimateSaveURL,
		estimateLoadURL:      cfg.EstimateLoadURL,
		defaultRegion:        region,
		maxConcurrentFetches: cfg.MaxConcurrentFetches,
	}, nil
}

// SearchServices searches the cached (or freshly fetched) service manifest.
func (e *Engine) SearchServices(query string) ([]CatalogEntry, error) {
	manifest, err := e.fetcher.Manifest(e.manifestURL)
	if err != nil {
		return nil, fmt.Errorf("loading service manifest: %w", err)
	}
	return SearchCatalog(manifest, query), nil
}

// GetServiceSchema fetches serviceCode's definition and extracts its
// portable schema, recursing into sub-services.
func (e *Engine) GetServiceSchema(serviceCode string) (*ServiceSchema, error) {
	defURL := ServiceDefinitionURL(e.serviceBaseURL, serviceCode)
	def, err := e.fetcher.ServiceDefinition(defURL)
	if err != nil {
		return nil, fmt.Errorf("loading service definition for %s: %w", serviceCode, err)
	}
	schema := GetSchema(e.fetcher, e.serviceBaseURL, def)
	return &schema, nil
}
