package rules

import "testing"

func TestExtract_KeyValueFlatMode(t *testing.T) {
	file := RuleFile{DocType: "W2", Rules: []Rule{
		{ID: "employer", Type: KindKeyValue, KeyLabel: "Employer", Key: "employer_name"},
	}}
	e := NewEngine()
	out, errs := e.Extract("Employer: Acme Corp\nWages: 85000\n", file, ModeFlat)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if out.Flat["employer_name"] != "Acme Corp" {
		t.Errorf("expected employer_name=Acme Corp, got %v", out.Flat["employer_name"])
	}
}

func TestExtract_StaticAndRegexRouteByMode(t *testing.T) {
	file := RuleFile{DocType: "W2", Rules: []Rule{
		{ID: "doc_type", Type: KindStatic, Value: "W2", Key: "doc_type"},
		{ID: "ssn", Type: KindRegex, Pattern: `\d{3}-\d{2}-\d{4}`, Key: "ssn"},
	}}
	e := NewEngine()
	out, errs := e.Extract("Employee SSN: 123-45-6789", file, ModeFlat)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if out.Flat["doc_type"] != "W2" {
		t.Errorf("expected static doc_type=W2, got %v", out.Flat["doc_type"])
	}
	if out.Flat["ssn"] != "123-45-6789" {
		t.Errorf("expected ssn=123-45-6789, got %v", out.Flat["ssn"])
	}
}

func TestExtract_UnknownRuleTypeIsSkippedNotFatal(t *testing.T) {
	file := RuleFile{DocType: "W2", Rules: []Rule{
		{ID: "bogus", Type: Kind("not_a_real_kind"), Key: "x"},
		{ID: "doc_type", Type: KindStatic, Value: "W2", Key: "doc_type"},
	}}
	e := NewEngine()
	out, errs := e.Extract("irrelevant", file, ModeFlat)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one RuleError, got %d: %+v", len(errs), errs)
	}
	if out.Flat["doc_type"] != "W2" {
		t.Error("expected the following valid rule to still execute")
	}
}

func TestExtract_NestedModeSetsDottedPath(t *testing.T) {
	file := RuleFile{DocType: "W2", Rules: []Rule{
		{ID: "employer", Type: KindKeyValue, KeyLabel: "Employer", TargetPath: "employment[0].employer_name"},
	}}
	e := NewEngine()
	out, errs := e.Extract("Employer: Acme Corp\n", file, ModeNested)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	employment, ok := out.Nested["employment"].([]interface{})
	if !ok || len(employment) != 1 {
		t.Fatalf("expected a one-element employment slice, got %+v", out.Nested["employment"])
	}
	entry, ok := employment[0].(map[string]interface{})
	if !ok || entry["employer_name"] != "Acme Corp" {
		t.Errorf("expected employer_name=Acme Corp at employment[0], got %+v", entry)
	}
}

func TestExtract_RegexNoMatchIsNonFatalRuleError(t *testing.T) {
	file := RuleFile{DocType: "W2", Rules: []Rule{
		{ID: "ssn", Type: KindRegex, Pattern: `\d{3}-\d{2}-\d{4}`, Key: "ssn"},
	}}
	e := NewEngine()
	out, errs := e.Extract("no social security number here", file, ModeFlat)
	if len(errs) != 1 {
		t.Fatalf("expected one RuleError for the non-matching regex, got %d", len(errs))
	}
	if _, present := out.Flat["ssn"]; present {
		t.Error("expected no ssn key to be set when the regex doesn't match")
	}
}
