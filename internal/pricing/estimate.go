package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/musheer360/awscalc-mcp/internal/metrics"
)

// ConfigureRequest is one service's worth of user-supplied input, keyed by
// input id, plus which template and region it should be priced against.
type ConfigureRequest struct {
	ServiceCode string
	TemplateID  string
	Region      string
	Answers     map[string]interface{}
}

// ConfigureResult is the priced outcome of one ConfigureRequest.
type ConfigureResult struct {
	Entry    ServiceEntry
	Warnings []string
}

// ConfigureService fetches the service's definition and pricing tables,
// evaluates its chosen template against the caller's answers, and returns
// the priced ServiceEntry ready to be attached to an estimate.
func (e *Engine) ConfigureService(req ConfigureRequest) (*ConfigureResult, error) {
	defURL := ServiceDefinitionURL(e.serviceBaseURL, req.ServiceCode)
	def, err := e.fetcher.ServiceDefinition(defURL)
	if err != nil {
		return nil, fmt.Errorf("loading service definition for %s: %w", req.ServiceCode, err)
	}

	region := req.Region
	if region == "" {
		region = e.defaultRegion
	}
	regionName := RegionDisplayName(region)

	inputs := ExtractInputs(def)
	calcComponents := BuildCalcComponents(inputs, req.Answers)

	tables := LoadPricingTables(e.fetcher, def, regionName, e.maxConcurrentFetches)

	templateID := req.TemplateID
	if templateID == "" && len(def.Templates) > 0 {
		templateID = def.Templates[0].ID
	}

	cost, warnings, err := EvaluateTemplate(def, templateID, calcComponents, tables)
	if err != nil {
		return nil, err
	}

	summary := summarizeConfig(inputs, calcComponents)

	entry := ServiceEntry{
		Version:               def.Version,
		ServiceCode:           def.ServiceCode,
		EstimateFor:           def.EstimateFor,
		Region:                region,
		RegionName:            regionName,
		CalculationComponents: calcComponents,
		ServiceCost:           cost,
		ServiceName:           def.ServiceName,
		ConfigSummary:         summary,
		TemplateID:            templateID,
	}

	return &ConfigureResult{Entry: entry, Warnings: warnings}, nil
}

// summarizeConfig produces a short human-readable summary of the chosen
// values, resolving each field's stored scalar back to its option label
// where one applies.
func summarizeConfig(inputs []InputField, values CalculationComponents) string {
	var parts []string
	for _, field := range inputs {
		cv, ok := values[field.ID]
		if !ok {
			continue
		}
		scalar, ok := cv.Scalar()
		if !ok {
			continue
		}
		resolved := ResolveValue(field, scalar)
		label := field.Label
		if label == "" {
			label = field.ID
		}
		parts = append(parts, fmt.Sprintf("%s=%v", label, resolved))
	}
	summary := ""
	for i, p := range parts {
		if i > 0 {
			summary += ", "
		}
		summary += p
	}
	return summary
}

// CreateEstimateRequest names the group of services to assemble into one
// persisted estimate document. Groups[i], if non-empty, is the group name
// Services[i] belongs to; services sharing a group name are bundled under
// one "group-{uuid}" entry in the saved document.
type CreateEstimateRequest struct {
	Name     string
	Services []ServiceEntry
	Groups   []string
}

// CreateEstimateResult is the persisted estimate's sharable link plus any
// non-fatal warnings collected while assembling it.
type CreateEstimateResult struct {
	Link     string
	Document EstimateDocument
	Warnings []string
}

// CreateEstimate assembles a multi-service EstimateDocument, computes its
// totals, and saves it to the remote store. Each service is given a unique
// "{serviceCode}-{uuid}" key so the same service can appear more than once
// in one estimate (e.g. two differently-sized EC2 fleets).
func (e *Engine) CreateEstimate(req CreateEstimateRequest) (*CreateEstimateResult, error) {
	doc := EstimateDocument{
		Name:     req.Name,
		Services: make(map[string]ServiceEntry, len(req.Services)),
		Groups:   make(map[string]Group),
		Support:  map[string]interface{}{},
		MetaData: MetaData{
			Locale:    "en_US",
			Currency:  "USD",
			CreatedOn: time.Now().UTC().Format(time.RFC3339),
			Source:    "awscalc-mcp",
		},
	}

	groupKeysByName := make(map[string][]string)
	var groupOrder []string
	for i, entry := range req.Services {
		if entry.ServiceCost.Monthly == 0 && entry.ServiceCost.Upfront == 0 {
			entry = e.autoCalculateCost(entry)
		}

		key := fmt.Sprintf("%s-%s", entry.ServiceCode, uuid.NewString())
		doc.Services[key] = entry
		doc.TotalCost.Monthly += entry.ServiceCost.Monthly
		doc.TotalCost.Upfront += entry.ServiceCost.Upfront

		var groupName string
		if i < len(req.Groups) {
			groupName = req.Groups[i]
		}
		if groupName == "" {
			continue
		}
		if _, seen := groupKeysByName[groupName]; !seen {
			groupOrder = append(groupOrder, groupName)
		}
		groupKeysByName[groupName] = append(groupKeysByName[groupName], key)
	}

	for _, name := range groupOrder {
		groupKey := fmt.Sprintf("group-%s", uuid.NewString())
		doc.Groups[groupKey] = Group{Name: name, Services: groupKeysByName[name]}
	}
	doc.GroupSubtotal = doc.TotalCost

	link, warnings, err := e.saveEstimate(doc)
	if err != nil {
		return nil, err
	}

	return &CreateEstimateResult{Link: link, Document: doc, Warnings: warnings}, nil
}

// autoCalculateCost fills in entry's serviceCost by fetching its definition
// and running the evaluator when the caller didn't already supply a
// non-zero cost. Any failure (fetch or evaluation) leaves the entry as a
// zero-cost service rather than failing the whole create_estimate call.
func (e *Engine) autoCalculateCost(entry ServiceEntry) ServiceEntry {
	defURL := ServiceDefinitionURL(e.serviceBaseURL, entry.ServiceCode)
	def, err := e.fetcher.ServiceDefinition(defURL)
	if err != nil {
		return entry
	}

	regionName := entry.RegionName
	if regionName == "" {
		regionName = RegionDisplayName(entry.Region)
	}
	tables := LoadPricingTables(e.fetcher, def, regionName, e.maxConcurrentFetches)

	templateID := entry.TemplateID
	if templateID == "" && len(def.Templates) > 0 {
		templateID = def.Templates[0].ID
	}

	cost, _, err := EvaluateTemplate(def, templateID, entry.CalculationComponents, tables)
	if err != nil {
		return entry
	}
	entry.ServiceCost = cost
	return entry
}

// saveEstimate POSTs the document to the remote store. On a non-2xx or
// malformed response it retries once with calculationComponents stripped
// from every service entry (the "strip-and-retry" protocol): the remote
// store occasionally rejects oversized payloads, and the calculation inputs
// are the most reliably droppable part of the document since the computed
// costs and summaries still fully describe the estimate without them.
func (e *Engine) saveEstimate(doc EstimateDocument) (string, []string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", nil, fmt.Errorf("marshaling estimate: %w", err)
	}

	link, firstStatus, firstBody, err := e.postEstimate(body)
	if err == nil {
		return link, nil, nil
	}

	metrics.EstimateSaveRetryTotal.Inc()

	stripped := stripCalculationComponents(doc)
	retryBody, marshalErr := json.Marshal(stripped)
	if marshalErr != nil {
		return "", nil, fmt.Errorf("marshaling stripped estimate: %w", marshalErr)
	}

	link, retryStatus, retryRespBody, retryErr := e.postEstimate(retryBody)
	if retryErr != nil {
		return "", nil, &SaveError{
			FirstStatus: firstStatus,
			FirstBody:   firstBody,
			RetryStatus: retryStatus,
			RetryBody:   retryRespBody,
		}
	}

	warnings := []string{"estimate saved without calculation-component detail after the initial save attempt failed"}
	return link, warnings, nil
}

func stripCalculationComponents(doc EstimateDocument) EstimateDocument {
	stripped := doc
	stripped.Services = make(map[string]ServiceEntry, len(doc.Services))
	for k, entry := range doc.Services {
		entry.CalculationComponents = nil
		if len(entry.SubServices) > 0 {
			subs := make([]ServiceEntry, len(entry.SubServices))
			for i, sub := range entry.SubServices {
				sub.CalculationComponents = nil
				subs[i] = sub
			}
			entry.SubServices = subs
		}
		stripped.Services[k] = entry
	}
	return stripped
}

// postEstimate performs the actual save HTTP call and extracts the
// {statusCode, body, savedKey} response shape the remote store uses.
func (e *Engine) postEstimate(body []byte) (link string, status int, respBody string, err error) {
	req, err := http.NewRequest(http.MethodPost, e.estimateSaveURL, bytes.NewReader(body))
	if err != nil {
		return "", 0, "", fmt.Errorf("building save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", 0, "", fmt.Errorf("performing save request: %w", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return "", resp.StatusCode, "", fmt.Errorf("reading save response: %w", readErr)
	}
	respBody = string(raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.StatusCode, respBody, &FetchError{URL: e.estimateSaveURL, Status: resp.StatusCode}
	}

	var parsed struct {
		StatusCode int    `json:"statusCode"`
		Body       string `json:"body"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", resp.StatusCode, respBody, &ResponseShapeError{Reason: "save response is not valid JSON"}
	}
	if parsed.StatusCode != 201 || parsed.Body == "" {
		return "", resp.StatusCode, respBody, &ResponseShapeError{Reason: "save response missing statusCode==201 or body"}
	}

	var inner struct {
		SavedKey string `json:"savedKey"`
	}
	if err := json.Unmarshal([]byte(parsed.Body), &inner); err != nil || inner.SavedKey == "" {
		return "", resp.StatusCode, respBody, &ResponseShapeError{Reason: "save response body did not contain a savedKey"}
	}

	return fmt.Sprintf("https://calculator.aws/#/estimate?id=%s", inner.SavedKey), resp.StatusCode, respBody, nil
}
