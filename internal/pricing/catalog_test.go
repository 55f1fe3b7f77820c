package pricing

import "testing"

func sampleManifest() *Manifest {
	return &Manifest{
		AWSServices: []ManifestService{
			{Name: "AWS Lambda", ServiceCode: "lambda", Slug: "lambda", Regions: []string{"us-east-1", "eu-west-1"}, SearchKeywords: []string{"serverless", "functions"}},
			{Name: "Amazon Simple Storage Service", ServiceCode: "s3", Slug: "s3", Regions: []string{"us-east-1"}, SearchKeywords: []string{"storage", "object"}},
			{Name: "Amazon EC2", ServiceCode: "ec2", Slug: "ec2", Regions: []string{"us-east-1", "us-west-2", "eu-west-1"}, SearchKeywords: []string{"compute", "instances"}},
		},
	}
}

func TestSearchCatalog_MatchesByName(t *testing.T) {
	results := SearchCatalog(sampleManifest(), "lambda")
	if len(results) != 1 || results[0].ServiceCode != "lambda" {
		t.Fatalf("expected single lambda match, got %+v", results)
	}
}

func TestSearchCatalog_MatchesByKeyword(t *testing.T) {
	results := SearchCatalog(sampleManifest(), "serverless")
	if len(results) != 1 || results[0].ServiceCode != "lambda" {
		t.Fatalf("expected keyword match for lambda, got %+v", results)
	}
}

func TestSearchCatalog_CaseInsensitive(t *testing.T) {
	results := SearchCatalog(sampleManifest(), "STORAGE")
	if len(results) != 1 || results[0].ServiceCode != "s3" {
		t.Fatalf("expected case-insensitive match for s3, got %+v", results)
	}
}

func TestSearchCatalog_EmptyQueryReturnsAllUpToLimit(t *testing.T) {
	results := SearchCatalog(sampleManifest(), "")
	if len(results) != 3 {
		t.Fatalf("expected all 3 entries for empty query, got %d", len(results))
	}
}

func TestSearchCatalog_RegionCountProjection(t *testing.T) {
	results := SearchCatalog(sampleManifest(), "ec2")
	if len(results) != 1 || results[0].RegionCount != 3 {
		t.Fatalf("expected regionCount 3 for ec2, got %+v", results)
	}
}

func TestSearchCatalog_CapsAtMaxResults(t *testing.T) {
	var services []ManifestService
	for i := 0; i < 30; i++ {
		services = append(services, ManifestService{Name: "svc", ServiceCode: "svc", Slug: "svc"})
	}
	results := SearchCatalog(&Manifest{AWSServices: services}, "svc")
	if len(results) != maxSearchResults {
		t.Fatalf("expected results capped at %d, got %d", maxSearchResults, len(results))
	}
}
