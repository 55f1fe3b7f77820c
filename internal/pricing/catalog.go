package pricing

import "strings"

// maxSearchResults caps how many catalog entries SearchServices returns, so
// a broad query like "a" doesn't dump the entire manifest back to the agent.
const maxSearchResults = 15

// SearchCatalog performs a case-insensitive substring match of query against
// each manifest entry's name, service code, slug, and search keywords,
// returning at most maxSearchResults hits in manifest order.
func SearchCatalog(manifest *Manifest, query string) []CatalogEntry {
	needle := strings.ToLower(strings.TrimSpace(query))

	var results []CatalogEntry
	for _, svc := range manifest.AWSServices {
		if needle != "" && !catalogEntryMatches(svc, needle) {
			continue
		}
		results = append(results, CatalogEntry{
			Name:        strings.TrimSpace(svc.Name),
			ServiceCode: svc.ServiceCode,
			Slug:        svc.Slug,
			RegionCount: len(svc.Regions),
		})
		if len(results) >= maxSearchResults {
			break
		}
	}
	return results
}

func catalogEntryMatches(svc ManifestService, needle string) bool {
	if strings.Contains(strings.ToLower(svc.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(svc.ServiceCode), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(svc.Slug), needle) {
		return true
	}
	for _, kw := range svc.SearchKeywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}
