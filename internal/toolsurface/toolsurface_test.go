package toolsurface

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/musheer360/awscalc-mcp/internal/audit"
	"github.com/musheer360/awscalc-mcp/internal/pricing"
)

func TestSurface_SearchServices_RecordsAuditEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"awsServices": []map[string]interface{}{
				{"name": "AWS Lambda", "serviceCode": "lambda", "slug": "lambda", "regions": []string{"us-east-1"}},
			},
		})
	}))
	defer server.Close()

	engine, err := pricing.NewEngine(pricing.EngineConfig{
		ManifestURL:    server.URL,
		ServiceBaseURL: "https://example.test/data",
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	auditLog := audit.New(10)
	s := New(engine, auditLog)

	result, err := s.SearchServices(SearchServicesArgs{Query: "lambda"})
	if err != nil {
		t.Fatalf("SearchServices: %v", err)
	}
	if len(result) != 1 || result[0].ServiceCode != "lambda" {
		t.Fatalf("unexpected result: %+v", result)
	}

	recent := auditLog.Recent(1)
	if len(recent) != 1 {
		t.Fatalf("expected one audit event, got %d", len(recent))
	}
	if recent[0].Tool != "search_services" || recent[0].Outcome != "ok" {
		t.Errorf("unexpected audit event: %+v", recent[0])
	}
}

func TestSurface_SearchServices_RecordsErrorOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	engine, err := pricing.NewEngine(pricing.EngineConfig{
		ManifestURL:    server.URL,
		ServiceBaseURL: "https://example.test/data",
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	auditLog := audit.New(10)
	s := New(engine, auditLog)

	if _, err := s.SearchServices(SearchServicesArgs{Query: "lambda"}); err == nil {
		t.Fatal("expected error from a failing manifest fetch")
	}

	recent := auditLog.Recent(1)
	if len(recent) != 1 || recent[0].Outcome != "error" {
		t.Fatalf("expected one error audit event, got %+v", recent)
	}
}

func TestSurface_ConfigureService_NilAuditLogIsOptional(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	engine, err := pricing.NewEngine(pricing.EngineConfig{
		ManifestURL:    server.URL,
		ServiceBaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	s := New(engine, nil)
	if _, err := s.ConfigureService(ConfigureServiceArgs{ServiceCode: "lambda", Inputs: map[string]interface{}{}}); err == nil {
		t.Fatal("expected error fetching a nonexistent service definition")
	}
}

func TestCreateEstimateArgs_GroupsServicesByLabel(t *testing.T) {
	args := CreateEstimateArgs{
		Name: "multi-service",
		Services: []EstimateServiceInput{
			{ServiceCode: "lambda", ServiceName: "AWS Lambda", MonthlyCost: 11.80, Group: "compute"},
			{ServiceCode: "s3", ServiceName: "Amazon S3", MonthlyCost: 5, Group: "compute"},
			{ServiceCode: "dynamodb", ServiceName: "Amazon DynamoDB", MonthlyCost: 2},
		},
	}
	if len(args.Services) != 3 {
		t.Fatalf("len(args.Services) = %d, want 3", len(args.Services))
	}
	if args.Services[2].Group != "" {
		t.Errorf("expected ungrouped service, got group %q", args.Services[2].Group)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode": 201,
			"body":       `{"savedKey":"grouped-key"}`,
		})
	}))
	defer server.Close()

	engine, err := pricing.NewEngine(pricing.EngineConfig{
		ManifestURL:     server.URL,
		ServiceBaseURL:  server.URL,
		EstimateSaveURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	result, err := New(engine, nil).CreateEstimate(args)
	if err != nil {
		t.Fatalf("CreateEstimate: %v", err)
	}
	if len(result.Document.Groups) != 1 {
		t.Fatalf("len(Groups) = %d, want 1", len(result.Document.Groups))
	}
	for _, g := range result.Document.Groups {
		if g.Name != "compute" || len(g.Services) != 2 {
			t.Errorf("group = %+v, want compute with 2 services", g)
		}
	}
}
