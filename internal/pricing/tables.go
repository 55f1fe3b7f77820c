package pricing

import (
	"fmt"
	"sync"
)

// collectMappingNames walks a service definition's full component tree and
// returns the set of distinct mappingDefinitionName values referenced by its
// pricing-resolution components (replace, singlePricePoint, pricingComboV2,
// tieredPricing). This is a pre-scan: the engine resolves exactly the tables
// a definition actually needs, never the full mappingDefinitions list.
func collectMappingNames(def *ServiceDefinition) []string {
	seen := make(map[string]bool)
	var names []string
	var walk func([]*Component)
	walk = func(components []*Component) {
		for _, c := range components {
			if c == nil {
				continue
			}
			if c.MappingDefinitionName != "" && !seen[c.MappingDefinitionName] {
				seen[c.MappingDefinitionName] = true
				names = append(names, c.MappingDefinitionName)
			}
			walk(c.Components)
		}
	}
	for _, tmpl := range def.Templates {
		for _, card := range tmpl.Cards {
			walk(card.InputSection.Components)
			walk(card.MathsSection)
		}
	}
	return names
}

// mappingURL resolves a mapping definition's template URL for def. If the
// definition doesn't declare a URL for name, it falls back to the pricing
// data store's default URL shape for that mapping name.
func mappingURL(def *ServiceDefinition, name string) string {
	for _, md := range def.MappingDefinitions {
		if md.Name == name {
			return ResolveServiceURL(md.URL)
		}
	}
	return fmt.Sprintf("https://calculator.aws/pricing/2.0/meteredUnitMaps/%s/USD/current/%s.json", name, name)
}

// LoadPricingTables pre-scans def for every mappingDefinitionName its
// components reference, then concurrently fetches and resolves each table
// for regionName, returning the result keyed by mapping-definition name.
// A table whose definition is missing or whose fetch fails is simply
// omitted — evaluator components that depend on it will surface a clear
// "missing pricing table" warning at evaluation time instead of failing the
// whole configure_service call up front.
func LoadPricingTables(fetcher *Fetcher, def *ServiceDefinition, regionName string, maxConcurrent int) PricingTables {
	names := collectMappingNames(def)
	tables := make(PricingTables, len(names))
	if len(names) == 0 {
		return tables
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)

	for _, name := range names {
		url := mappingURL(def, name)
		wg.Add(1)
		sem <- struct{}{}
		go func(name, url string) {
			defer wg.Done()
			defer func() { <-sem }()

			table, err := fetcher.PricingTable(name, regionName, url)
			if err != nil {
				return
			}
			mu.Lock()
			tables[name] = table
			mu.Unlock()
		}(name, url)
	}
	wg.Wait()
	return tables
}
