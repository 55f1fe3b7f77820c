package pricing

import "testing"

func TestNormalizeValue_FileSizeConversion(t *testing.T) {
	got := NormalizeValue(2, "GB", "MB")
	want := 2048.0
	if got != want {
		t.Errorf("NormalizeValue(2, GB, MB) = %v, want %v", got, want)
	}
}

func TestNormalizeValue_BinaryTableSatisfiesGBMBInvariant(t *testing.T) {
	a := NormalizeValue(1, "GB", "GB")
	b := NormalizeValue(1024, "MB", "GB")
	c := NormalizeValue(1.0/1024, "TB", "GB")
	if a != b || b != c {
		t.Errorf("normalize(1,GB)=%v, normalize(1024,MB)=%v, normalize(1/1024,TB)=%v; want all equal", a, b, c)
	}
}

func TestNormalizeValue_FrequencyCoversFullUnitSet(t *testing.T) {
	cases := []struct {
		unit string
		want float64
	}{
		{"per second", 2592000},
		{"per minute", 43200},
		{"per hour", 720},
		{"per day", 30},
		{"per week", 30.0 / 7},
		{"per month", 1},
		{"per year", 1.0 / 12},
	}
	for _, tc := range cases {
		got := NormalizeValue(1, tc.unit, "per month")
		if got != tc.want {
			t.Errorf("NormalizeValue(1, %q, per month) = %v, want %v", tc.unit, got, tc.want)
		}
	}
}

func TestNormalizeValue_SameUnitIsIdentity(t *testing.T) {
	if got := NormalizeValue(42, "GB", "GB"); got != 42 {
		t.Errorf("NormalizeValue with equal units = %v, want 42", got)
	}
}

func TestNormalizeValue_UnknownUnitPassesThrough(t *testing.T) {
	if got := NormalizeValue(7, "widgets", "gadgets"); got != 7 {
		t.Errorf("NormalizeValue with unknown units = %v, want 7 unchanged", got)
	}
}

func TestBuildCalcComponents_SupersetOfInputIDs(t *testing.T) {
	inputs := []InputField{
		{ID: "storage", Type: "numberInput", Unit: "GB", Default: 10.0},
		{ID: "requests", Type: "numberInput", Default: 1000.0},
	}
	answers := map[string]interface{}{
		"storage": 50.0,
	}

	out := BuildCalcComponents(inputs, answers)

	for _, f := range inputs {
		if _, ok := out[f.ID]; !ok {
			t.Errorf("BuildCalcComponents result missing input id %q", f.ID)
		}
	}

	storageVal, _ := out["storage"].Scalar()
	if storageVal != 50.0 {
		t.Errorf("storage value = %v, want 50.0 (from answer)", storageVal)
	}

	requestsVal, _ := out["requests"].Scalar()
	if requestsVal != 1000.0 {
		t.Errorf("requests value = %v, want 1000.0 (from default)", requestsVal)
	}
}

func TestResolveValue_LabelValueDuality(t *testing.T) {
	field := InputField{
		ID: "tier",
		Options: []Option{
			{Label: "Standard", Value: "STD"},
			{Label: "Premium", Value: "PREM"},
		},
	}

	if got := ResolveValue(field, "STD"); got != "Standard" {
		t.Errorf("ResolveValue(STD) = %v, want Standard", got)
	}
	if got := ResolveValue(field, "Premium"); got != "PREM" {
		t.Errorf("ResolveValue(Premium) = %v, want PREM", got)
	}
	if got := ResolveValue(field, "unknown"); got != "unknown" {
		t.Errorf("ResolveValue(unknown) = %v, want unchanged", got)
	}
}

func TestBuildComponentValue_PricingStrategyPassThrough(t *testing.T) {
	field := InputField{ID: "strategy", Type: "pricingStrategy"}
	raw := map[string]interface{}{"onDemand": true, "term": "1yr"}

	cv := BuildComponentValue(field, raw)
	if _, hasValue := cv["value"]; hasValue {
		t.Error("pricingStrategy ComponentValue should not carry a top-level value key")
	}
	if cv["onDemand"] != true {
		t.Errorf("pricingStrategy ComponentValue lost onDemand key: %v", cv)
	}
}
