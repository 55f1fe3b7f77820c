package pricing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/musheer360/awscalc-mcp/internal/metrics"
)

// Fetcher retrieves and memoizes the remote documents the pricing engine
// depends on: the service manifest, per-service definitions, and per-region
// pricing tables. Each cache is a single map guarded by its own RWMutex;
// a failed fetch clears its slot rather than caching the error, so the next
// caller retries against the network instead of being stuck with a miss
// forever.
type Fetcher struct {
	client *http.Client

	manifestMu sync.RWMutex
	manifest   *Manifest

	definitionMu sync.RWMutex
	definitions  map[string]*ServiceDefinition // keyed by URL

	tableMu sync.RWMutex
	tables  map[string]RegionPriceTable // keyed by "mappingDefinitionName|regionName"
}

// NewFetcher builds a Fetcher using an http.Client with the given timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:      &http.Client{Timeout: timeout},
		definitions: make(map[string]*ServiceDefinition),
		tables:      make(map[string]RegionPriceTable),
	}
}

func (f *Fetcher) getJSON(url string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading body of %s: %w", url, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding JSON from %s: %w", url, err)
	}
	return nil
}

// Manifest returns the cached service manifest, fetching it from url on
// first call or after a prior fetch failed.
func (f *Fetcher) Manifest(url string) (*Manifest, error) {
	f.manifestMu.RLock()
	if f.manifest != nil {
		defer f.manifestMu.RUnlock()
		metrics.FetchTotal.WithLabelValues("manifest", "hit").Inc()
		return f.manifest, nil
	}
	f.manifestMu.RUnlock()

	timer := time.Now()
	var m Manifest
	err := f.getJSON(url, &m)
	metrics.FetchDurationSeconds.WithLabelValues("manifest").Observe(time.Since(timer).Seconds())
	if err != nil {
		metrics.FetchTotal.WithLabelValues("manifest", "error").Inc()
		return nil, err
	}

	f.manifestMu.Lock()
	f.manifest = &m
	f.manifestMu.Unlock()

	metrics.FetchTotal.WithLabelValues("manifest", "miss").Inc()
	return &m, nil
}

// ServiceDefinition returns the cached service definition at url, fetching it
// on first call or after a prior fetch failed.
func (f *Fetcher) ServiceDefinition(url string) (*ServiceDefinition, error) {
	f.definitionMu.RLock()
	if def, ok := f.definitions[url]; ok {
		f.definitionMu.RUnlock()
		metrics.FetchTotal.WithLabelValues("definition", "hit").Inc()
		return def, nil
	}
	f.definitionMu.RUnlock()

	timer := time.Now()
	var def ServiceDefinition
	err := f.getJSON(url, &def)
	metrics.FetchDurationSeconds.WithLabelValues("definition").Observe(time.Since(timer).Seconds())
	if err != nil {
		metrics.FetchTotal.WithLabelValues("definition", "error").Inc()
		return nil, err
	}

	f.definitionMu.Lock()
	f.definitions[url] = &def
	f.definitionMu.Unlock()

	metrics.FetchTotal.WithLabelValues("definition", "miss").Inc()
	return &def, nil
}

// PricingTable returns the cached, region-projected price table for the
// mapping definition at url, keyed by (mappingDefinitionName, regionName).
func (f *Fetcher) PricingTable(mappingDefinitionName, regionName, url string) (RegionPriceTable, error) {
	key := tableCacheKey(mappingDefinitionName, regionName)

	f.tableMu.RLock()
	if t, ok := f.tables[key]; ok {
		f.tableMu.RUnlock()
		metrics.FetchTotal.WithLabelValues("pricing", "hit").Inc()
		return t, nil
	}
	f.tableMu.RUnlock()

	timer := time.Now()
	var raw map[string]json.RawMessage
	err := f.getJSON(url, &raw)
	metrics.FetchDurationSeconds.WithLabelValues("pricing").Observe(time.Since(timer).Seconds())
	if err != nil {
		metrics.FetchTotal.WithLabelValues("pricing", "error").Inc()
		return nil, err
	}

	regions, ok := raw["regions"]
	if !ok {
		// Some mapping documents are already a flat region->value map with no
		// top-level "regions" wrapper.
		regions = mustRemarshal(raw)
	}

	var byRegion map[string]map[string]json.RawMessage
	if err := json.Unmarshal(regions, &byRegion); err != nil {
		metrics.FetchTotal.WithLabelValues("pricing", "error").Inc()
		return nil, &ResponseShapeError{Reason: fmt.Sprintf("pricing table %q: %v", url, err)}
	}

	regionBlock, ok := byRegion[regionName]
	if !ok {
		metrics.FetchTotal.WithLabelValues("pricing", "error").Inc()
		return nil, &NotFoundError{ID: regionName}
	}

	table := make(RegionPriceTable, len(regionBlock))
	for unit, rawVal := range regionBlock {
		var asObj struct {
			Price float64 `json:"price"`
		}
		if err := json.Unmarshal(rawVal, &asObj); err == nil && asObj.Price != 0 {
			table[unit] = asObj.Price
			continue
		}
		var asFloat float64
		if err := json.Unmarshal(rawVal, &asFloat); err == nil {
			table[unit] = asFloat
		}
	}

	f.tableMu.Lock()
	f.tables[key] = table
	f.tableMu.Unlock()

	metrics.FetchTotal.WithLabelValues("pricing", "miss").Inc()
	return table, nil
}

func tableCacheKey(mappingDefinitionName, regionName string) string {
	return mappingDefinitionName + "|" + regionName
}

func mustRemarshal(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// ResolveServiceURL substitutes the "[currency]" placeholder some mapping
// definitions carry with the fixed USD currency this engine operates in.
func ResolveServiceURL(url string) string {
	return strings.ReplaceAll(url, "[currency]", "USD")
}

// ServiceDefinitionURL builds the remote document URL for a service's
// definition: GET {serviceBaseURL}/{serviceCode}/en_US.json.
func ServiceDefinitionURL(serviceBaseURL, serviceCode string) string {
	return fmt.Sprintf("%s/%s/en_US.json", serviceBaseURL, serviceCode)
}
