package pricing

import (
	"fmt"
	"math"
	"sort"
)

// CellKind tags the shape of a value living in the evaluator's context.
type CellKind int

const (
	CellNumber CellKind = iota
	CellString
	CellTiers
)

// TierPrice is one resolved [start, end) band with its per-unit price
// already looked up from a pricing table.
type TierPrice struct {
	Start float64
	End   float64 // math.Inf(1) for the open-ended top tier
	Price float64
}

// Cell is one entry of the evaluator's flat context: either a number, a
// string (e.g. an unresolved label), or a resolved tier schedule.
type Cell struct {
	Kind   CellKind
	Number float64
	String string
	Tiers  []TierPrice
}

func numberCell(n float64) Cell { return Cell{Kind: CellNumber, Number: n} }
func stringCell(s string) Cell  { return Cell{Kind: CellString, String: s} }

// asNumber coerces a context cell to a float64, treating a string cell that
// parses as a number as that number and anything else as zero.
func (c Cell) asNumber() float64 {
	switch c.Kind {
	case CellNumber:
		return c.Number
	case CellString:
		var f float64
		if _, err := fmt.Sscanf(c.String, "%g", &f); err == nil {
			return f
		}
	}
	return 0
}

// evalContext is the flat id -> Cell map threaded through all three
// evaluator phases for one card's worth of components.
type evalContext map[string]Cell

// EvaluateTemplate runs the named template's cards (gated by displayIf)
// against values and tables, returning the summed monthly/upfront cost. Any
// card whose displayIf condition evaluates false is skipped entirely: its
// maths section never executes and its variables never enter the context.
func EvaluateTemplate(def *ServiceDefinition, templateID string, values CalculationComponents, tables PricingTables) (ServiceCost, []string, error) {
	tmpl := findTemplate(def, templateID)
	if tmpl == nil {
		return ServiceCost{}, nil, fmt.Errorf("template %q not found in service %s", templateID, def.ServiceCode)
	}

	var total ServiceCost
	var warnings []string

	for _, card := range tmpl.Cards {
		ctx := make(evalContext)
		seedFromInputs(ctx, card.InputSection.Components, values)

		if card.DisplayIf != nil && !evalDisplayIf(card.DisplayIf, ctx, tables) {
			continue
		}

		cardWarnings := runMathsSection(ctx, card.MathsSection, tables)
		warnings = append(warnings, cardWarnings...)

		monthly, upfront := sumCosts(card.MathsSection, ctx, tables)
		total.Monthly += monthly
		total.Upfront += upfront
	}

	return total, warnings, nil
}

func findTemplate(def *ServiceDefinition, templateID string) *Template {
	for i := range def.Templates {
		if def.Templates[i].ID == templateID {
			return &def.Templates[i]
		}
	}
	if templateID == "" && len(def.Templates) > 0 {
		return &def.Templates[0]
	}
	return nil
}

// seedFromInputs walks the card's input tree depth-first, seeding ctx[id]
// from the caller-supplied CalculationComponents for every leaf with a
// persisted scalar value.
func seedFromInputs(ctx evalContext, components []*Component, values CalculationComponents) {
	for _, c := range components {
		if c == nil {
			continue
		}
		if c.ID != "" {
			if cv, ok := values[c.ID]; ok {
				if scalar, ok := cv.Scalar(); ok {
					ctx[c.ID] = cellFromScalar(scalar)
				}
			}
		}
		seedFromInputs(ctx, c.Components, values)
	}
}

func cellFromScalar(v interface{}) Cell {
	switch t := v.(type) {
	case float64:
		return numberCell(t)
	case int:
		return numberCell(float64(t))
	case string:
		return stringCell(t)
	case bool:
		if t {
			return numberCell(1)
		}
		return numberCell(0)
	default:
		return stringCell(fmt.Sprintf("%v", t))
	}
}

// runMathsSection evaluates each maths-section component in declaration
// order, writing its result into ctx keyed by VariableID (falling back to
// ID). Operators execute in textual order because later operators are
// allowed to refer back to earlier ones by variable id.
func runMathsSection(ctx evalContext, components []*Component, tables PricingTables) []string {
	var warnings []string
	for _, c := range components {
		if c == nil {
			continue
		}
		if c.DisplayIf != nil && !evalDisplayIf(c.DisplayIf, ctx, tables) {
			continue
		}
		key := c.VariableID
		if key == "" {
			key = c.ID
		}
		cell, warn := evalOperator(c, ctx, tables)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		if key != "" {
			ctx[key] = cell
		}
	}
	return warnings
}

func evalOperator(c *Component, ctx evalContext, tables PricingTables) (Cell, string) {
	switch c.EffectiveType() {
	case "replace":
		return evalReplace(c, ctx), ""
	case "singlePricePoint":
		return evalSinglePricePoint(c, ctx, tables)
	case "pricingComboV2":
		return evalPricingComboV2(c, ctx, tables)
	case "tieredPricing":
		return evalTieredPricing(c, ctx, tables)
	case "basicMaths":
		return evalBasicMaths(c, ctx), ""
	case "maxMin":
		return evalMaxMin(c, ctx), ""
	case "rounding":
		return evalRounding(c, ctx), ""
	case "tieredPricingMath":
		return evalTieredPricingMath(c, ctx), ""
	case "display", "conversionDisplay":
		return evalDisplay(c, ctx), ""
	case "priceDisplay":
		return evalPriceDisplay(c, ctx), ""
	default:
		return Cell{}, fmt.Sprintf("unsupported operator %q", c.EffectiveType())
	}
}

// evalReplace resolves originalId's current value against the replacements
// table, falling back to replaceString (itself possibly a {{var}} template)
// when no replacement matches.
func evalReplace(c *Component, ctx evalContext) Cell {
	source := ctx[c.OriginalID]
	label := cellLabel(source)
	for _, r := range c.Replacements {
		if r.OriginalString == label {
			return stringCell(r.ReplaceString)
		}
	}
	return stringCell(c.ReplaceString)
}

func cellLabel(c Cell) string {
	if c.Kind == CellString {
		return c.String
	}
	return fmt.Sprintf("%v", c.Number)
}

func operandValue(op Operand, ctx evalContext) float64 {
	switch {
	case op.Constant != nil:
		return *op.Constant
	case op.VariableID != nil:
		return ctx[*op.VariableID].asNumber()
	case op.Refer != nil:
		return ctx[*op.Refer].asNumber()
	case op.Value != nil:
		return *op.Value
	case op.Literal != nil:
		return *op.Literal
	default:
		return 0
	}
}

// evalSinglePricePoint looks up a single metered unit's price for the
// card's region in the named mapping table.
func evalSinglePricePoint(c *Component, ctx evalContext, tables PricingTables) (Cell, string) {
	table, ok := tables[c.MappingDefinitionName]
	if !ok {
		return numberCell(0), fmt.Sprintf("missing pricing table %q", c.MappingDefinitionName)
	}
	unit := c.MeteredUnit.AllRegions
	if price, ok := table[unit]; ok {
		return numberCell(price), ""
	}
	return numberCell(0), fmt.Sprintf("metered unit %q not found in table %q", unit, c.MappingDefinitionName)
}

// evalPricingComboV2 builds a metered-unit key from its refers operands
// (each resolving to a string/number fragment joined with no separator,
// matching how the calculator's combo keys are constructed) and looks up
// the combined key in the mapping table.
func evalPricingComboV2(c *Component, ctx evalContext, tables PricingTables) (Cell, string) {
	table, ok := tables[c.MappingDefinitionName]
	if !ok {
		return numberCell(0), fmt.Sprintf("missing pricing table %q", c.MappingDefinitionName)
	}
	var key string
	for _, ref := range c.Refers {
		key += operandString(ref, ctx)
	}
	if price, ok := table[key]; ok {
		return numberCell(price), ""
	}
	return numberCell(0), fmt.Sprintf("combo key %q not found in table %q", key, c.MappingDefinitionName)
}

func operandString(op Operand, ctx evalContext) string {
	switch {
	case op.VariableID != nil:
		return cellLabel(ctx[*op.VariableID])
	case op.Refer != nil:
		return cellLabel(ctx[*op.Refer])
	case op.Constant != nil:
		return fmt.Sprintf("%v", *op.Constant)
	case op.Value != nil:
		return fmt.Sprintf("%v", *op.Value)
	case op.Literal != nil:
		return fmt.Sprintf("%v", *op.Literal)
	default:
		return ""
	}
}

// evalTieredPricing resolves def.Tiers against the mapping table, producing
// a CellTiers carrying each band's boundaries and its looked-up price. The
// metered unit for tier N is conventionally named "tier<N>" in the mapping
// table; a tier whose unit can't be found contributes a zero price rather
// than aborting the whole schedule.
func evalTieredPricing(c *Component, ctx evalContext, tables PricingTables) (Cell, string) {
	table, ok := tables[c.MappingDefinitionName]
	if !ok {
		return Cell{Kind: CellTiers}, fmt.Sprintf("missing pricing table %q", c.MappingDefinitionName)
	}

	tiers := make([]TierPrice, 0, len(c.Tiers.AllRegions))
	for i, t := range c.Tiers.AllRegions {
		end := t.EndOfTier
		if end < 0 {
			end = math.Inf(1)
		}
		unit := fmt.Sprintf("tier%d", i+1)
		price := table[unit]
		tiers = append(tiers, TierPrice{Start: t.StartOfTier, End: end, Price: price})
	}
	return Cell{Kind: CellTiers, Tiers: tiers}, ""
}

// evalBasicMaths folds c.Operands with c.Operation, left to right.
// Operation is one of multiplication, addition, subtraction, division;
// division by zero yields 0 rather than propagating Inf/NaN.
func evalBasicMaths(c *Component, ctx evalContext) Cell {
	if len(c.Operands) == 0 {
		return numberCell(0)
	}
	result := operandValue(c.Operands[0], ctx)
	for _, op := range c.Operands[1:] {
		v := operandValue(op, ctx)
		switch c.Operation {
		case "addition":
			result += v
		case "subtraction":
			result -= v
		case "multiplication":
			result *= v
		case "division":
			if v != 0 {
				result /= v
			} else {
				result = 0
			}
		}
	}
	return numberCell(result)
}

// evalMaxMin reduces c.Operands via c.Operation, one of Maximum or Minimum.
func evalMaxMin(c *Component, ctx evalContext) Cell {
	if len(c.Operands) == 0 {
		return numberCell(0)
	}
	result := operandValue(c.Operands[0], ctx)
	for _, op := range c.Operands[1:] {
		v := operandValue(op, ctx)
		switch c.Operation {
		case "Minimum":
			if v < result {
				result = v
			}
		default: // "Maximum"
			if v > result {
				result = v
			}
		}
	}
	return numberCell(result)
}

// evalRounding rounds the input variable per c.Method: roundUp computes
// ceil(v/factor)*factor, roundDown computes floor(v/factor)*factor, and any
// other method passes v through unscaled.
func evalRounding(c *Component, ctx evalContext) Cell {
	v := ctx[c.InputRefer].asNumber()
	factor := 1.0
	if c.Factor != nil {
		factor = operandValue(*c.Factor, ctx)
		if factor == 0 {
			factor = 1
		}
	}
	switch c.Method {
	case "roundUp":
		return numberCell(math.Ceil(v/factor) * factor)
	case "roundDown":
		return numberCell(math.Floor(v/factor) * factor)
	default:
		return numberCell(v)
	}
}

// evalTieredPricingMath applies a resolved tier schedule to a usage amount,
// summing each band's (amount-in-band * price).
func evalTieredPricingMath(c *Component, ctx evalContext) Cell {
	usage := ctx[c.InputRefer].asNumber()
	schedule := ctx[c.TieredPricingRefer]
	if schedule.Kind != CellTiers {
		return numberCell(0)
	}

	tiers := append([]TierPrice(nil), schedule.Tiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Start < tiers[j].Start })

	var total float64
	remaining := usage
	for _, tier := range tiers {
		if remaining <= 0 {
			break
		}
		bandWidth := tier.End - tier.Start
		if math.IsInf(tier.End, 1) {
			bandWidth = remaining
		}
		amountInBand := math.Min(remaining, bandWidth)
		if amountInBand < 0 {
			continue
		}
		total += amountInBand * tier.Price
		remaining -= amountInBand
	}
	return numberCell(total)
}

// evalDisplay passes a referenced variable through unchanged; it exists so
// downstream consumers can key off a dedicated display node's variable id
// without re-deriving the final value.
func evalDisplay(c *Component, ctx evalContext) Cell {
	refer := c.Refer
	if refer == "" {
		refer = c.InputRefer
	}
	return ctx[refer]
}

// evalPriceDisplay resolves the subtotal a priceDisplay node exposes to cost
// summation: context[subTotalRefer], falling back to refer.
func evalPriceDisplay(c *Component, ctx evalContext) Cell {
	refer := c.SubTotalRefer
	if refer == "" {
		refer = c.Refer
	}
	return ctx[refer]
}

// sumCosts walks the card's maths-section components collecting every
// priceDisplay node's {costType, value} entry and grouping the total by
// costType: "Upfront" versus anything else (including an absent costType,
// which defaults to "Monthly") buckets into monthly. A priceDisplay node
// whose own displayIf evaluates false contributes nothing.
func sumCosts(components []*Component, ctx evalContext, tables PricingTables) (monthly, upfront float64) {
	for _, c := range components {
		if c == nil || c.EffectiveType() != "priceDisplay" {
			continue
		}
		if c.DisplayIf != nil && !evalDisplayIf(c.DisplayIf, ctx, tables) {
			continue
		}
		refer := c.SubTotalRefer
		if refer == "" {
			refer = c.Refer
		}
		v := ctx[refer].asNumber()
		costType := c.CostType
		if costType == "" {
			costType = "Monthly"
		}
		if costType == "Upfront" {
			upfront += v
		} else {
			monthly += v
		}
	}
	return monthly, upfront
}

// evalDisplayIf recursively evaluates a displayIf condition tree against ctx
// and tables. Supported shapes: a bare bool;
// {exists: {type: "meteredUnit", mappingDefinitionName, meteredUnit}}, true
// iff the price table has that unit; {and|or|not: [...]}, composed
// recursively; {"==": [left, right]}, where either side may be
// {type: "component", id} resolving via context and both sides are compared
// as strings. Any unknown shape defaults to true.
func evalDisplayIf(cond interface{}, ctx evalContext, tables PricingTables) bool {
	switch v := cond.(type) {
	case bool:
		return v
	case map[string]interface{}:
		return evalDisplayIfObject(v, ctx, tables)
	default:
		return true
	}
}

func evalDisplayIfObject(obj map[string]interface{}, ctx evalContext, tables PricingTables) bool {
	if existsRaw, ok := obj["exists"]; ok {
		existsObj, _ := existsRaw.(map[string]interface{})
		return evalDisplayIfExists(existsObj, tables)
	}

	if andRaw, ok := obj["and"]; ok {
		conds, _ := andRaw.([]interface{})
		for _, o := range conds {
			if !evalDisplayIf(o, ctx, tables) {
				return false
			}
		}
		return true
	}

	if orRaw, ok := obj["or"]; ok {
		conds, _ := orRaw.([]interface{})
		for _, o := range conds {
			if evalDisplayIf(o, ctx, tables) {
				return true
			}
		}
		return false
	}

	if notRaw, ok := obj["not"]; ok {
		if conds, ok := notRaw.([]interface{}); ok {
			for _, o := range conds {
				if evalDisplayIf(o, ctx, tables) {
					return false
				}
			}
			return true
		}
		return !evalDisplayIf(notRaw, ctx, tables)
	}

	if eqRaw, ok := obj["=="]; ok {
		pair, _ := eqRaw.([]interface{})
		if len(pair) != 2 {
			return true
		}
		left := displayIfOperandString(pair[0], ctx)
		right := displayIfOperandString(pair[1], ctx)
		return left == right
	}

	return true
}

// evalDisplayIfExists reports whether the named metered unit has a resolved
// price in the named mapping table.
func evalDisplayIfExists(obj map[string]interface{}, tables PricingTables) bool {
	if obj == nil {
		return false
	}
	name, _ := obj["mappingDefinitionName"].(string)
	unit, _ := obj["meteredUnit"].(string)
	table, ok := tables[name]
	if !ok {
		return false
	}
	_, ok = table[unit]
	return ok
}

// displayIfOperandString resolves one side of an "==" comparison:
// {type: "component", id} looks up the component's current value in ctx;
// anything else is compared by its string form.
func displayIfOperandString(v interface{}, ctx evalContext) string {
	if m, ok := v.(map[string]interface{}); ok {
		if t, _ := m["type"].(string); t == "component" {
			id, _ := m["id"].(string)
			return cellLabel(ctx[id])
		}
	}
	return fmt.Sprintf("%v", v)
}
