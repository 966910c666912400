// Package relational lowers a CanonicalRecord into a RelationalPayload:
// one row sequence per destination table, wired together with opaque
// "_x_ref" placeholders a downstream loader resolves into real
// identifiers.
package relational

import (
	"loanforge/pkg/core/utils"
	"loanforge/pkg/models"
)

// Warning is a diagnostic for a Party sub-array this transformer has no
// mapping for; these are surfaced, never silently dropped.
type Warning struct {
	Path    string
	Message string
}

// Transform lowers rec into a RelationalPayload. finalLoanAmount, when
// non-nil, is preferred over the promissory note's principal amount for
// the applications row's loan_amount column, the way a loan's
// underwriting-approved amount supersedes the document-extracted one.
func Transform(rec *models.CanonicalRecord, finalLoanAmount *float64) (*models.RelationalPayload, []Warning) {
	payload := models.NewRelationalPayload()
	var warnings []Warning

	propertyRef := transformProperty(payload, rec)

	customerRefs := make([]string, len(rec.Deal.Parties))
	var primaryCustomerRef string
	for i, p := range rec.Deal.Parties {
		if p.PartyRole.Value == models.PartyRoleLender {
			continue
		}
		customerRefs[i] = transformCustomer(payload, i, p)
		if primaryCustomerRef == "" {
			primaryCustomerRef = customerRefs[i]
		}
	}

	transformApplication(payload, rec, propertyRef, primaryCustomerRef, finalLoanAmount)

	for i, p := range rec.Deal.Parties {
		if p.PartyRole.Value == models.PartyRoleLender {
			continue
		}
		custRef := customerRefs[i]
		transformApplicationCustomer(payload, custRef, i, p)
		transformResidences(payload, custRef, p)
		transformEmployments(payload, custRef, p)
		transformAssets(payload, custRef, p)
		warnings = append(warnings, diagnoseUnmapped(i, p)...)
	}

	transformLiabilities(payload, rec, customerRefs)
	transformDemographics(payload, rec, customerRefs)

	return payload, warnings
}

func lenderParty(rec *models.CanonicalRecord) *models.Party {
	for i := range rec.Deal.Parties {
		if rec.Deal.Parties[i].PartyRole.Value == models.PartyRoleLender {
			return &rec.Deal.Parties[i]
		}
	}
	return nil
}

func cleanedAmount(raw string) *float64 {
	return utils.CleanCurrency(raw)
}
