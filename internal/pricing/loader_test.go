package pricing

import "testing"

func TestExtractEstimateID_BareToken(t *testing.T) {
	id, err := ExtractEstimateID("abc123-def456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "abc123-def456" {
		t.Errorf("id = %q, want %q", id, "abc123-def456")
	}
}

func TestExtractEstimateID_URLEmbedded(t *testing.T) {
	id, err := ExtractEstimateID("https://calculator.aws/#/estimate?id=abc123-def456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "abc123-def456" {
		t.Errorf("id = %q, want %q", id, "abc123-def456")
	}
}

func TestExtractEstimateID_EmptyInput(t *testing.T) {
	if _, err := ExtractEstimateID(""); err == nil {
		t.Fatal("expected error for empty input, got nil")
	}
}

func TestLooksLikeXML(t *testing.T) {
	cases := []struct {
		body []byte
		want bool
	}{
		{[]byte("<Error><Code>NotFound</Code></Error>"), true},
		{[]byte("  \n<Error/>"), true},
		{[]byte(`{"name": "estimate"}`), false},
		{[]byte(""), false},
	}
	for _, c := range cases {
		if got := looksLikeXML(c.body); got != c.want {
			t.Errorf("looksLikeXML(%q) = %v, want %v", c.body, got, c.want)
		}
	}
}
