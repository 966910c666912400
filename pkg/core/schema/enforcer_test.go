package schema

import (
	"testing"

	"loanforge/pkg/models"
)

func TestEnforce_FillsMissingRequiredFromDefault(t *testing.T) {
	payload := models.NewRelationalPayload()
	payload.AddRow("properties", &models.Row{Ref: "property_0"})
	Enforce(payload, DefaultPolicies())
	row := payload.Tables["properties"][0]
	if row.Fields["occupancy_type"] != "PrimaryResidence" {
		t.Fatalf("expected default occupancy_type, got %v", row.Fields["occupancy_type"])
	}
	if _, ok := row.Fields["address"]; !ok {
		t.Fatalf("expected address key to be present (nil) since it has no default")
	}
	if row.Fields["address"] != nil {
		t.Fatalf("expected address to be nil when no default exists, got %v", row.Fields["address"])
	}
}

func TestEnforce_DoesNotOverwriteExistingValue(t *testing.T) {
	payload := models.NewRelationalPayload()
	row := payload.AddRow("assets", &models.Row{Ref: "asset_0"})
	row.Fields["asset_type"] = "SavingsAccount"
	Enforce(payload, DefaultPolicies())
	if row.Fields["asset_type"] != "SavingsAccount" {
		t.Fatalf("expected existing value preserved, got %v", row.Fields["asset_type"])
	}
}

func TestEnforce_UnknownTableUntouched(t *testing.T) {
	payload := models.NewRelationalPayload()
	row := payload.AddRow("some_future_table", &models.Row{Ref: "x_0"})
	row.Fields["whatever"] = "value"
	Enforce(payload, DefaultPolicies())
	if len(row.Fields) != 1 || row.Fields["whatever"] != "value" {
		t.Fatalf("expected unknown table rows to be left exactly as-is, got %v", row.Fields)
	}
}

func TestEnforce_DisallowedFieldRemoved(t *testing.T) {
	payload := models.NewRelationalPayload()
	row := payload.AddRow("customers", &models.Row{Ref: "customer_0"})
	row.Fields["internal_debug_note"] = "scratch"
	policies := DefaultPolicies()
	p := policies["customers"]
	p.Disallowed = []string{"internal_debug_note"}
	policies["customers"] = p

	Enforce(payload, policies)
	if _, present := row.Fields["internal_debug_note"]; present {
		t.Fatalf("expected disallowed field to be stripped")
	}
}

func TestIsReferenceKey_SkipsRequiredFillWhenRefPaired(t *testing.T) {
	row := &models.Row{Refs: map[string]string{"_property_ref": "property_0"}, Fields: map[string]interface{}{}}
	policy := TablePolicy{Required: []string{"property_id"}}
	enforceRow(row, policy)
	if _, present := row.Fields["property_id"]; present {
		t.Fatalf("expected property_id to be skipped as a reference-style key, got fields %v", row.Fields)
	}
}
