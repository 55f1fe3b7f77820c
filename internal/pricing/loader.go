package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

// estimateIDPattern extracts a bare estimate key from either a raw token or
// a shared link with the key embedded as a query parameter or path segment.
var estimateIDPattern = regexp.MustCompile(`[A-Za-z0-9-]+`)

// ExtractEstimateID pulls the estimate's key out of a bare id or a full
// shared-link URL, taking the last regexp match so a "?id=<id>" suffix
// wins over any path segments that happen to look like ids.
func ExtractEstimateID(raw string) (string, error) {
	matches := estimateIDPattern.FindAllString(raw, -1)
	if len(matches) == 0 {
		return "", fmt.Errorf("no estimate id found in %q", raw)
	}
	return matches[len(matches)-1], nil
}

// LoadedService is the human-facing projection of one service entry within a
// loaded estimate.
type LoadedService struct {
	Name          string  `json:"name"`
	Region        string  `json:"region"`
	MonthlyCost   float64 `json:"monthlyCost"`
	UpfrontCost   float64 `json:"upfrontCost"`
	HasComponents bool    `json:"hasComponents"`
	TemplateID    string  `json:"templateId,omitempty"`
}

// LoadSummary is the human-facing projection of a loaded estimate.
type LoadSummary struct {
	Name         string           `json:"name"`
	CreatedOn    string           `json:"createdOn"`
	MonthlyCost  float64          `json:"monthlyCost"`
	UpfrontCost  float64          `json:"upfrontCost"`
	ServiceCount int              `json:"serviceCount"`
	Services     []LoadedService  `json:"services"`
	Document     EstimateDocument `json:"document"`
}

// LoadEstimate fetches a previously saved estimate by id or shared link. The
// remote store responds with XML instead of a 404 status when an estimate
// doesn't exist or isn't accessible, so the loader sniffs the first
// non-whitespace byte of the response body rather than trusting the HTTP
// status code alone.
func (e *Engine) LoadEstimate(idOrLink string) (*LoadSummary, error) {
	id, err := ExtractEstimateID(idOrLink)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s", e.estimateLoadURL, id)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building load request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing load request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading load response: %w", err)
	}

	if looksLikeXML(body) || (resp.StatusCode >= 400 && resp.StatusCode < 500) {
		return nil, &NotFoundError{ID: id}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	var doc EstimateDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ResponseShapeError{Reason: "load response is not valid estimate JSON"}
	}

	services := make([]LoadedService, 0, len(doc.Services))
	for _, entry := range doc.Services {
		services = append(services, LoadedService{
			Name:          entry.ServiceName,
			Region:        entry.RegionName,
			MonthlyCost:   entry.ServiceCost.Monthly,
			UpfrontCost:   entry.ServiceCost.Upfront,
			HasComponents: len(entry.CalculationComponents) > 0,
			TemplateID:    entry.TemplateID,
		})
	}

	return &LoadSummary{
		Name:         doc.Name,
		CreatedOn:    doc.MetaData.CreatedOn,
		MonthlyCost:  doc.TotalCost.Monthly,
		UpfrontCost:  doc.TotalCost.Upfront,
		ServiceCount: len(doc.Services),
		Services:     services,
		Document:     doc,
	}, nil
}

// looksLikeXML sniffs the first non-whitespace byte of body, the same way
// the remote store's "not found" sentinel is distinguished from a genuine
// JSON estimate document.
func looksLikeXML(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '<'
}
