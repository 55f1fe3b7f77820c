// Package pricing implements the core pricing evaluation engine: schema
// extraction, value normalization, pricing-table lookup, conditional
// inclusion, and the ordered expression evaluator that turns a service
// definition into a numeric cost.
package pricing

import (
	"encoding/json"
	"fmt"
)

// ServiceDefinition is the remote, authoritative document describing one
// AWS service's configurable inputs, pricing-lookup bindings, and math
// formulas.
type ServiceDefinition struct {
	ServiceCode        string               `json:"serviceCode"`
	ServiceName        string               `json:"serviceName"`
	Version            string               `json:"version"`
	EstimateFor        string               `json:"estimateFor"`
	Layout             string               `json:"layout"`
	SubServices        []SubServiceRef      `json:"subServices,omitempty"`
	MappingDefinitions []MappingDefinition  `json:"mappingDefinitions,omitempty"`
	Templates          []Template           `json:"templates"`
}

// SubServiceRef points at another ServiceDefinition nested under this one.
type SubServiceRef struct {
	ServiceCode string `json:"serviceCode"`
	Label       string `json:"label,omitempty"`
}

// MappingDefinition names a remote per-region, per-metered-unit price table.
type MappingDefinition struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Template is a top-level alternate form for configuring a service.
type Template struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cards []Card `json:"cards"`
}

// Card holds one input section and an optional math section, gated by an
// optional displayIf condition.
type Card struct {
	ID           string       `json:"id,omitempty"`
	DisplayIf    interface{}  `json:"displayIf,omitempty"`
	InputSection InputSection `json:"inputSection"`
	MathsSection []*Component `json:"mathsSection,omitempty"`
}

// InputSection is the root of a card's recursive component tree.
type InputSection struct {
	Components []*Component `json:"components,omitempty"`
}

// Option is a {label, value} pair used by dropdowns, radio groups, and tiles.
type Option struct {
	Label string      `json:"label,omitempty"`
	Value interface{} `json:"value"`
}

// RadioGroup is one group within a pricingStrategy component.
type RadioGroup struct {
	Key     string      `json:"key"`
	Default interface{} `json:"default,omitempty"`
	Options []Option    `json:"options,omitempty"`
}

// RadioOption is one entry of a radioTiles component's radioOptions list.
type RadioOption struct {
	Label       string      `json:"label,omitempty"`
	Value       interface{} `json:"value"`
	Description string      `json:"description,omitempty"`
}

// Replacement is one originalString -> replaceString mapping for a replace
// component.
type Replacement struct {
	OriginalString string `json:"originalString"`
	ReplaceString  string `json:"replaceString"`
}

// MeteredUnitSpec names the metered-unit dimension priced by a component.
type MeteredUnitSpec struct {
	AllRegions string `json:"allRegions,omitempty"`
}

// TierDef is one [start, end) band of a tiered price schedule.
type TierDef struct {
	StartOfTier float64 `json:"startOfTier"`
	EndOfTier   float64 `json:"endOfTier"` // -1 means unbounded
}

// TierSpec carries the region-agnostic tier boundaries; prices are resolved
// against the mapping's price table at evaluation time.
type TierSpec struct {
	AllRegions []TierDef `json:"allRegions,omitempty"`
}

// Component is a recursive node in a service definition's template tree. It
// is deliberately a flat struct covering every attribute any of the closed
// operator set might carry, matching the shape of the remote JSON documents.
type Component struct {
	Type    string `json:"type,omitempty"`
	SubType string `json:"subType,omitempty"`
	ID      string `json:"id,omitempty"`

	Label       string          `json:"label,omitempty"`
	Description string          `json:"description,omitempty"`
	DefaultValue json.RawMessage `json:"defaultValue,omitempty"`
	Value        json.RawMessage `json:"value,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	UnitOptions []Option `json:"unitOptions,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Components  []*Component `json:"components,omitempty"`
	DisplayIf   interface{}  `json:"displayIf,omitempty"`

	// pricingStrategy / radioTiles
	RadioGroups      []RadioGroup    `json:"radioGroups,omitempty"`
	DefaultSelection json.RawMessage `json:"defaultSelection,omitempty"`
	RadioOptions     []RadioOption   `json:"radioOptions,omitempty"`

	// pricing resolution (replace, singlePricePoint, pricingComboV2, tieredPricing)
	OriginalID            string          `json:"originalId,omitempty"`
	Replacements          []Replacement   `json:"replacements,omitempty"`
	ReplaceString         string          `json:"replaceString,omitempty"`
	MappingDefinitionName string          `json:"mappingDefinitionName,omitempty"`
	MeteredUnit           MeteredUnitSpec `json:"meteredUnit,omitempty"`
	Refers                []Operand       `json:"refers,omitempty"`
	Tiers                 TierSpec        `json:"tiers,omitempty"`

	// math operators (basicMaths, maxMin, rounding, tieredPricingMath, priceDisplay)
	VariableID         string    `json:"variableId,omitempty"`
	Refer              string    `json:"refer,omitempty"`
	InputRefer         string    `json:"inputRefer,omitempty"`
	TieredPricingRefer string    `json:"tieredPricingRefer,omitempty"`
	Operation          string    `json:"operation,omitempty"`
	Operands           []Operand `json:"operands,omitempty"`
	Method             string    `json:"method,omitempty"`
	Factor             *Operand  `json:"factor,omitempty"`
	CostType           string    `json:"costType,omitempty"`
	SubTotalRefer      string    `json:"subTotalRefer,omitempty"`
}

// EffectiveType returns subType if present, else type, per the field
// derivation rule in the schema extractor.
func (c *Component) EffectiveType() string {
	if c.SubType != "" {
		return c.SubType
	}
	return c.Type
}

// Operand is one leaf of a math expression: {constant:N}, {variableId:k},
// {refer:k}, {value:v}, or a bare number.
type Operand struct {
	Constant   *float64
	VariableID *string
	Refer      *string
	Value      *float64
	Literal    *float64 // bare JSON number
}

// UnmarshalJSON accepts either a bare number or one of the tagged object
// encodings used throughout the math tree.
func (o *Operand) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		o.Literal = &num
		return nil
	}
	var obj struct {
		Constant   *float64 `json:"constant"`
		VariableID *string  `json:"variableId"`
		Refer      *string  `json:"refer"`
		Value      *float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding operand: %w", err)
	}
	o.Constant = obj.Constant
	o.VariableID = obj.VariableID
	o.Refer = obj.Refer
	o.Value = obj.Value
	return nil
}

// InputField is the portable, extracted form of an input Component.
type InputField struct {
	ID          string       `json:"id"`
	Label       string       `json:"label,omitempty"`
	Type        string       `json:"type"`
	Description string       `json:"description,omitempty"`
	Default     interface{}  `json:"default"`
	Unit        string       `json:"unit,omitempty"`
	Options     []Option     `json:"options"`
	DefaultUnit string       `json:"defaultUnit,omitempty"`
	UnitOptions []Option     `json:"unitOptions,omitempty"`
	Format      string       `json:"format,omitempty"`
	RadioGroups []RadioGroup `json:"radioGroups,omitempty"`
}

// TemplateInfo is the id/title projection of a Template for schema output.
type TemplateInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ServiceSchema is the extracted, portable schema returned by GetSchema.
type ServiceSchema struct {
	ServiceCode string          `json:"serviceCode"`
	ServiceName string          `json:"serviceName"`
	Version     string          `json:"version"`
	Layout      string          `json:"layout"`
	Templates   []TemplateInfo  `json:"templates"`
	Inputs      []InputField    `json:"inputs"`
	SubServices []ServiceSchema `json:"subServices,omitempty"`
	Advisory    string          `json:"advisory,omitempty"`
}

// ComponentValue is the persisted form of a single input's value: either
// {value}, {value, unit}, or (for pricingStrategy) a plain object with no
// "value" key at all.
type ComponentValue map[string]interface{}

// Scalar returns the "value" entry and whether it was present.
func (c ComponentValue) Scalar() (interface{}, bool) {
	v, ok := c["value"]
	return v, ok
}

// UnitOf returns the "unit" entry, if any.
func (c ComponentValue) UnitOf() (string, bool) {
	u, ok := c["unit"].(string)
	return u, ok
}

// CalculationComponents is the persisted input map for one service entry:
// input id -> ComponentValue.
type CalculationComponents map[string]ComponentValue

// RegionPriceTable maps a metered unit to its price, for one mapping
// definition resolved against one region.
type RegionPriceTable map[string]float64

// PricingTables maps mapping-definition name -> RegionPriceTable, already
// resolved to the region the caller asked for.
type PricingTables map[string]RegionPriceTable

// ServiceCost is the {monthly, upfront} pair carried by every service entry.
type ServiceCost struct {
	Monthly float64 `json:"monthly"`
	Upfront float64 `json:"upfront"`
}

// ServiceEntry is the persisted, per-service record within an
// EstimateDocument.
type ServiceEntry struct {
	Version               string                 `json:"version,omitempty"`
	ServiceCode           string                 `json:"serviceCode"`
	EstimateFor           string                 `json:"estimateFor,omitempty"`
	Region                string                 `json:"region"`
	RegionName            string                 `json:"regionName"`
	Description           *string                `json:"description"`
	CalculationComponents CalculationComponents  `json:"calculationComponents,omitempty"`
	ServiceCost           ServiceCost            `json:"serviceCost"`
	ServiceName           string                 `json:"serviceName"`
	ConfigSummary         string                 `json:"configSummary,omitempty"`
	TemplateID            string                 `json:"templateId,omitempty"`
	SubServices           []ServiceEntry         `json:"subServices,omitempty"`
}

// MetaData carries estimate-level bookkeeping.
type MetaData struct {
	Locale    string `json:"locale"`
	Currency  string `json:"currency"`
	CreatedOn string `json:"createdOn"`
	Source    string `json:"source"`
}

// Group is a named bundle of service keys within an estimate.
type Group struct {
	Name     string   `json:"name"`
	Services []string `json:"services"`
}

// EstimateDocument is the persisted form of a multi-service estimate.
type EstimateDocument struct {
	Name          string                  `json:"name"`
	Services      map[string]ServiceEntry `json:"services"`
	Groups        map[string]Group        `json:"groups"`
	GroupSubtotal ServiceCost             `json:"groupSubtotal"`
	TotalCost     ServiceCost             `json:"totalCost"`
	Support       map[string]interface{}  `json:"support"`
	MetaData      MetaData                `json:"metaData"`
}

// CatalogEntry is the projected search-result shape from the Catalog Index.
type CatalogEntry struct {
	Name        string `json:"name"`
	ServiceCode string `json:"serviceCode"`
	Slug        string `json:"slug"`
	RegionCount int    `json:"regionCount"`
}

// Manifest is the remote catalog document listing every available service.
type Manifest struct {
	AWSServices []ManifestService `json:"awsServices"`
}

// ManifestService is one entry of the manifest's awsServices list.
type ManifestService struct {
	Name           string   `json:"name"`
	ServiceCode    string   `json:"serviceCode"`
	Slug           string   `json:"slug"`
	Regions        []string `json:"regions"`
	SearchKeywords []string `json:"searchKeywords"`
}
