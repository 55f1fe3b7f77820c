package pricing

import (
	"encoding/json"
	"strings"
)

// fileSizeFactorsToGB converts one unit of each file-size unit to gigabytes,
// using the calculator's binary convention: KB -> 1/2^20, MB -> 1/2^10,
// GB -> 1, TB -> 1024.
var fileSizeFactorsToGB = map[string]float64{
	"KB": 1.0 / 1048576,
	"MB": 1.0 / 1024,
	"GB": 1,
	"TB": 1024,
}

// frequencyFactorsPerMonth converts one unit of each frequency unit to an
// equivalent monthly count, against a 30-day month.
var frequencyFactorsPerMonth = map[string]float64{
	"per second": 2592000,
	"per minute": 43200,
	"per hour":   720,
	"per day":    30,
	"per week":   30.0 / 7,
	"per month":  1,
	"per year":   1.0 / 12,
}

// NormalizeValue converts a scalar amount from fromUnit to toUnit within the
// same dimension (file size or frequency). If the units are unrecognized or
// belong to different dimensions, amount is returned unchanged.
func NormalizeValue(amount float64, fromUnit, toUnit string) float64 {
	if fromUnit == toUnit {
		return amount
	}
	if fFrom, ok := fileSizeFactorsToGB[fromUnit]; ok {
		if fTo, ok := fileSizeFactorsToGB[toUnit]; ok {
			return amount * fFrom / fTo
		}
	}
	if fFrom, ok := frequencyFactorsPerMonth[fromUnit]; ok {
		if fTo, ok := frequencyFactorsPerMonth[toUnit]; ok {
			return amount * fFrom / fTo
		}
	}
	return amount
}

// BuildComponentValue wraps a raw answer into the persisted ComponentValue
// shape: {value, unit} when the field carries a unit, {value} otherwise, or
// the raw object verbatim when the field is a pricingStrategy component
// (those carry their own sub-keys and no top-level "value").
func BuildComponentValue(field InputField, raw interface{}) ComponentValue {
	if field.Type == "pricingStrategy" {
		if obj, ok := raw.(map[string]interface{}); ok {
			return ComponentValue(obj)
		}
		return ComponentValue{}
	}

	cv := ComponentValue{"value": raw}
	if unit, ok := raw2Unit(raw); ok {
		cv["unit"] = unit
	} else if field.Unit != "" {
		cv["unit"] = field.Unit
	}
	return cv
}

// raw2Unit extracts an explicit unit from an answer shaped as
// {"value": v, "unit": u}, letting a caller override the field's default unit.
func raw2Unit(raw interface{}) (string, bool) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return "", false
	}
	u, ok := obj["unit"].(string)
	return u, ok
}

// scalarOf extracts the numeric/string value a caller supplied for a field,
// unwrapping the {"value": v, "unit": u} shape if present.
func scalarOf(raw interface{}) interface{} {
	if obj, ok := raw.(map[string]interface{}); ok {
		if v, ok := obj["value"]; ok {
			return v
		}
	}
	return raw
}

// BuildCalcComponents builds the full CalculationComponents map for a
// service definition's extracted inputs, given the caller-supplied answers
// keyed by input id. Every extracted input id appears in the result — from
// the caller's answer if provided, else from the field's own default — so
// the output is always a superset of the input id set.
func BuildCalcComponents(inputs []InputField, answers map[string]interface{}) CalculationComponents {
	out := make(CalculationComponents, len(inputs))
	for _, field := range inputs {
		if raw, ok := answers[field.ID]; ok {
			out[field.ID] = BuildComponentValue(field, scalarOf(raw))
			if unit, ok := raw2Unit(raw); ok {
				out[field.ID]["unit"] = unit
			}
			continue
		}
		out[field.ID] = BuildComponentValue(field, field.Default)
	}
	return out
}

// ResolveValue reconciles a stored scalar against a field's option list: if
// the stored value is an option's Value, the option's Label is returned;
// if the stored value is itself an option's Label, the matching Value is
// returned. Otherwise the stored value is returned unchanged. This honors
// the label/value duality the UI components use interchangeably.
func ResolveValue(field InputField, stored interface{}) interface{} {
	for _, opt := range field.Options {
		if valuesEqual(opt.Value, stored) {
			if opt.Label != "" {
				return opt.Label
			}
			return opt.Value
		}
		if s, ok := stored.(string); ok && opt.Label == s {
			return opt.Value
		}
	}
	return stored
}

func valuesEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}

func unmarshalLenient(raw json.RawMessage, out interface{}) error {
	return json.Unmarshal(raw, out)
}

// normalizeKey lowercases and trims a lookup key for case-insensitive
// metered-unit and mapping-name comparisons.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
