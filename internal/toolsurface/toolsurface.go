// Package toolsurface exposes the pricing engine as five plain Go methods,
// one per agent-callable tool: search_services, get_service_schema,
// configure_service, create_estimate, and load_estimate. It is the single
// seam between the JSON-RPC transport and the pricing engine, so the
// transport layer never touches pricing.Engine directly.
package toolsurface

import (
	"encoding/json"
	"time"

	"github.com/musheer360/awscalc-mcp/internal/audit"
	"github.com/musheer360/awscalc-mcp/internal/metrics"
	"github.com/musheer360/awscalc-mcp/internal/pricing"
)

// Surface wraps a pricing.Engine and an optional audit log, instrumenting
// every call with tool-call metrics and an audit record.
type Surface struct {
	engine *pricing.Engine
	audit  *audit.Log
}

// New builds a Surface. auditLog may be nil to disable invocation logging.
func New(engine *pricing.Engine, auditLog *audit.Log) *Surface {
	return &Surface{engine: engine, audit: auditLog}
}

// SearchServicesArgs is the search_services tool's argument shape.
type SearchServicesArgs struct {
	Query string `json:"query"`
}

// SearchServices looks up catalog entries matching args.Query.
func (s *Surface) SearchServices(args SearchServicesArgs) ([]pricing.CatalogEntry, error) {
	start := time.Now()
	result, err := s.engine.SearchServices(args.Query)
	s.record("search_services", args, err, start)
	return result, err
}

// GetServiceSchemaArgs is the get_service_schema tool's argument shape.
type GetServiceSchemaArgs struct {
	ServiceCode string `json:"serviceCode"`
}

// GetServiceSchema returns the extracted schema for a service.
func (s *Surface) GetServiceSchema(args GetServiceSchemaArgs) (*pricing.ServiceSchema, error) {
	start := time.Now()
	result, err := s.engine.GetServiceSchema(args.ServiceCode)
	s.record("get_service_schema", args, err, start)
	return result, err
}

// ConfigureServiceArgs is the configure_service tool's argument shape.
type ConfigureServiceArgs struct {
	ServiceCode string                 `json:"serviceCode"`
	TemplateID  string                 `json:"templateId,omitempty"`
	Region      string                 `json:"region,omitempty"`
	Inputs      map[string]interface{} `json:"inputs"`
}

// ConfigureServiceResult is the configure_service tool's flat result shape.
type ConfigureServiceResult struct {
	ServiceName           string                        `json:"serviceName"`
	ServiceCode           string                        `json:"serviceCode"`
	Region                string                        `json:"region"`
	MonthlyCost           float64                       `json:"monthlyCost"`
	UpfrontCost           float64                       `json:"upfrontCost"`
	CalculationComponents pricing.CalculationComponents `json:"calculationComponents"`
	TemplateID            string                        `json:"templateId,omitempty"`
	ConfigSummary         string                        `json:"configSummary,omitempty"`
	Warnings              []string                      `json:"warnings,omitempty"`
}

// ConfigureService prices one service against the caller's inputs.
func (s *Surface) ConfigureService(args ConfigureServiceArgs) (*ConfigureServiceResult, error) {
	start := time.Now()
	result, err := s.engine.ConfigureService(pricing.ConfigureRequest{
		ServiceCode: args.ServiceCode,
		TemplateID:  args.TemplateID,
		Region:      args.Region,
		Answers:     args.Inputs,
	})
	s.record("configure_service", args, err, start)
	if err != nil {
		return nil, err
	}
	return &ConfigureServiceResult{
		ServiceName:           result.Entry.ServiceName,
		ServiceCode:           result.Entry.ServiceCode,
		Region:                result.Entry.Region,
		MonthlyCost:           result.Entry.ServiceCost.Monthly,
		UpfrontCost:           result.Entry.ServiceCost.Upfront,
		CalculationComponents: result.Entry.CalculationComponents,
		TemplateID:            result.Entry.TemplateID,
		ConfigSummary:         result.Entry.ConfigSummary,
		Warnings:              result.Warnings,
	}, nil
}

// EstimateServiceInput is one service's worth of priced configuration as
// passed into create_estimate, matching the flat shape configure_service
// returns plus an optional group label.
type EstimateServiceInput struct {
	ServiceCode           string                        `json:"serviceCode"`
	Region                string                        `json:"region,omitempty"`
	RegionName            string                        `json:"regionName,omitempty"`
	ServiceName           string                        `json:"serviceName"`
	Description           string                        `json:"description,omitempty"`
	MonthlyCost           float64                       `json:"monthlyCost,omitempty"`
	UpfrontCost           float64                       `json:"upfrontCost,omitempty"`
	ConfigSummary         string                        `json:"configSummary,omitempty"`
	CalculationComponents pricing.CalculationComponents `json:"calculationComponents,omitempty"`
	TemplateID            string                        `json:"templateId,omitempty"`
	Group                 string                        `json:"group,omitempty"`
}

// CreateEstimateArgs is the create_estimate tool's argument shape.
type CreateEstimateArgs struct {
	Name     string                 `json:"name"`
	Services []EstimateServiceInput `json:"services"`
}

// CreateEstimate assembles and saves a multi-service estimate.
func (s *Surface) CreateEstimate(args CreateEstimateArgs) (*pricing.CreateEstimateResult, error) {
	start := time.Now()

	entries := make([]pricing.ServiceEntry, len(args.Services))
	groups := make([]string, len(args.Services))
	for i, svc := range args.Services {
		region := svc.Region
		if region == "" {
			region = "us-east-1"
		}
		regionName := svc.RegionName
		if regionName == "" {
			regionName = pricing.RegionDisplayName(region)
		}
		var description *string
		if svc.Description != "" {
			d := svc.Description
			description = &d
		}
		entries[i] = pricing.ServiceEntry{
			ServiceCode:           svc.ServiceCode,
			Region:                region,
			RegionName:            regionName,
			Description:           description,
			CalculationComponents: svc.CalculationComponents,
			ServiceCost:           pricing.ServiceCost{Monthly: svc.MonthlyCost, Upfront: svc.UpfrontCost},
			ServiceName:           svc.ServiceName,
			ConfigSummary:         svc.ConfigSummary,
			TemplateID:            svc.TemplateID,
		}
		groups[i] = svc.Group
	}

	result, err := s.engine.CreateEstimate(pricing.CreateEstimateRequest{
		Name:     args.Name,
		Services: entries,
		Groups:   groups,
	})
	s.record("create_estimate", args, err, start)
	return result, err
}

// LoadEstimateArgs is the load_estimate tool's argument shape.
type LoadEstimateArgs struct {
	IDOrLink string `json:"idOrLink"`
}

// LoadEstimate fetches a previously saved estimate.
func (s *Surface) LoadEstimate(args LoadEstimateArgs) (*pricing.LoadSummary, error) {
	start := time.Now()
	result, err := s.engine.LoadEstimate(args.IDOrLink)
	s.record("load_estimate", args, err, start)
	return result, err
}

// record instruments one tool invocation: Prometheus histogram/counter plus
// an audit log entry.
func (s *Surface) record(tool string, args interface{}, err error, start time.Time) {
	metrics.ToolCallDurationSeconds.WithLabelValues(tool).Observe(time.Since(start).Seconds())

	outcome := "ok"
	details := ""
	if err != nil {
		outcome = "error"
		details = err.Error()
	}
	metrics.ToolCallTotal.WithLabelValues(tool, outcome).Inc()

	if s.audit != nil {
		argBytes, _ := json.Marshal(args)
		s.audit.Record(tool, string(argBytes), outcome, details)
	}
}
