package utils

import "testing"

func TestCleanCurrency_StripsSymbolsAndCommas(t *testing.T) {
	v := CleanCurrency("$1,234.56")
	if v == nil || *v != 1234.56 {
		t.Errorf("expected 1234.56, got %+v", v)
	}
}

func TestCleanCurrency_NegativeSign(t *testing.T) {
	v := CleanCurrency("-500")
	if v == nil || *v != -500 {
		t.Errorf("expected -500, got %+v", v)
	}
}

func TestCleanCurrency_EmptyOrJunkReturnsNil(t *testing.T) {
	for _, raw := range []string{"", "   ", "-", ".", "N/A"} {
		if v := CleanCurrency(raw); v != nil {
			t.Errorf("expected nil for %q, got %v", raw, *v)
		}
	}
}

func TestIsWellFormedDate(t *testing.T) {
	cases := map[string]bool{
		"04/15/2024": true,
		"2024-04-15": true,
		"April 2024": false,
		"2024/04/15": false,
	}
	for in, want := range cases {
		if got := IsWellFormedDate(in); got != want {
			t.Errorf("IsWellFormedDate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestToISODate_ConvertsUSFormat(t *testing.T) {
	if got := ToISODate("04/15/2024"); got != "2024-04-15" {
		t.Errorf("expected 2024-04-15, got %s", got)
	}
}

func TestToISODate_PassesThroughIllFormedInput(t *testing.T) {
	if got := ToISODate("not a date"); got != "not a date" {
		t.Errorf("expected passthrough, got %s", got)
	}
}

func TestExtractFirstJSONObject_StripsProseAndFences(t *testing.T) {
	raw := "Sure, here you go:\n```json\n{\"a\": 1, \"b\": {\"c\": 2}}\n```"
	got := ExtractFirstJSONObject(raw)
	if got != `{"a": 1, "b": {"c": 2}}` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractFirstJSONObject_IgnoresBracesInsideStrings(t *testing.T) {
	raw := `{"note": "looks like a { trap }"}`
	got := ExtractFirstJSONObject(raw)
	if got != raw {
		t.Errorf("expected full object preserved, got %q", got)
	}
}

func TestExtractFirstJSONObject_NoObjectReturnsEmpty(t *testing.T) {
	if got := ExtractFirstJSONObject("no json here"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSmartParse_FallsBackThroughRepairAndHjson(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	// Unquoted key and bare string value are invalid strict JSON but valid
	// Hjson, so this only succeeds once SmartParse falls through to its
	// third (Hjson) tier.
	if _, err := SmartParse("{name: Jordan}", &out); err != nil {
		t.Fatalf("SmartParse: %v", err)
	}
	if out.Name != "Jordan" {
		t.Errorf("expected Jordan, got %q", out.Name)
	}
}

func TestSmartParse_StrictJSONSucceedsOnFirstTry(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	if _, err := SmartParse(`{"name": "Jordan"}`, &out); err != nil {
		t.Fatalf("SmartParse: %v", err)
	}
	if out.Name != "Jordan" {
		t.Errorf("expected Jordan, got %q", out.Name)
	}
}

func TestCleanMarkdown_StripsCodeFence(t *testing.T) {
	got := CleanMarkdown("```markdown\n# Heading\n```")
	if got != "# Heading" {
		t.Errorf("expected fence stripped, got %q", got)
	}
}

func TestCleanMarkdown_PlainInputUnchanged(t *testing.T) {
	if got := CleanMarkdown("  # Heading  "); got != "# Heading" {
		t.Errorf("expected trimmed passthrough, got %q", got)
	}
}

func TestValidateMarkdown_AcceptsAnyInput(t *testing.T) {
	if !ValidateMarkdown("# Heading\n\nSome body text.") {
		t.Error("expected goldmark to parse well-formed markdown")
	}
}
