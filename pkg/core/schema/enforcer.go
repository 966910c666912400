// Package schema enforces per-table required/default/disallowed field
// policy on a RelationalPayload after the Relational Transformer runs.
package schema

import (
	"strings"

	"loanforge/pkg/models"
)

// TablePolicy describes one destination table's field contract.
type TablePolicy struct {
	Required   []string
	Defaults   map[string]interface{}
	Disallowed []string
}

// Policies is the complete per-table policy set. Tables absent here are
// purely additive: Enforce leaves their rows untouched.
type Policies map[string]TablePolicy

// DefaultPolicies mirrors the tables the Relational Transformer (§4.H)
// populates.
func DefaultPolicies() Policies {
	return Policies{
		"properties": {
			Required: []string{"address", "occupancy_type"},
			Defaults: map[string]interface{}{"occupancy_type": "PrimaryResidence"},
		},
		"applications": {
			Required: []string{"loan_amount", "application_number", "occupancy_type", "key_information"},
		},
		"customers": {
			Required: []string{"full_name", "ssn"},
		},
		"application_customers": {
			Required: []string{"role", "sequence_index"},
		},
		"employments": {
			Required: []string{"employer_name", "employment_status", "employment_type"},
			Defaults: map[string]interface{}{"employment_status": "Current"},
		},
		"incomes": {
			Required: []string{"income_type", "amount", "frequency"},
			Defaults: map[string]interface{}{"frequency": "Monthly"},
		},
		"demographics": {
			Required: []string{"ethnicity", "race", "sex"},
		},
		"residences": {
			Required: []string{"residency_type", "street"},
		},
		"assets": {
			Required: []string{"asset_type", "asset_value"},
			Defaults: map[string]interface{}{"asset_type": "CheckingAccount"},
		},
		"liabilities": {
			Required: []string{"liability_type", "unpaid_balance", "monthly_payment"},
			Defaults: map[string]interface{}{"monthly_payment": 0.0},
		},
	}
}

// Enforce applies policies to every row in payload in place field-wise:
// it never adds or removes rows, only fills/defaults/strips fields on
// each row it already has.
func Enforce(payload *models.RelationalPayload, policies Policies) {
	for table, rows := range payload.Tables {
		policy, known := policies[table]
		if !known {
			continue
		}
		for _, row := range rows {
			enforceRow(row, policy)
		}
	}
}

func enforceRow(row *models.Row, policy TablePolicy) {
	for _, key := range policy.Disallowed {
		delete(row.Fields, key)
	}

	for _, key := range policy.Required {
		if isReferenceKey(key, row) {
			continue
		}
		if _, present := row.Fields[key]; present {
			continue
		}
		if def, hasDefault := policy.Defaults[key]; hasDefault {
			row.Fields[key] = def
		} else {
			row.Fields[key] = nil
		}
	}

	for key, def := range policy.Defaults {
		if _, present := row.Fields[key]; !present {
			row.Fields[key] = def
		}
	}
}

// isReferenceKey reports whether key names an "_id" column backed by a
// paired "_ref" placeholder already carried on the row's Refs map, per
// the spec's carve-out for internal foreign keys.
func isReferenceKey(key string, row *models.Row) bool {
	if !strings.HasSuffix(key, "_id") {
		return false
	}
	refKey := "_" + strings.TrimSuffix(key, "_id") + "_ref"
	_, ok := row.Refs[refKey]
	return ok
}
