package relational

import "loanforge/pkg/models"

// transformDemographics emits one demographics row for the primary
// borrower's ethnicity/race/sex, each wrapped as a single-element
// sequence the way HMDA demographic collection reports a scalar
// response.
func transformDemographics(payload *models.RelationalPayload, rec *models.CanonicalRecord, customerRefs []string) {
	idx := rec.Deal.PrimaryBorrowerIndex()
	if idx == -1 || idx >= len(customerRefs) {
		return
	}
	borrower := rec.Deal.Parties[idx]
	ind := borrower.Individual
	if ind.Ethnicity == "" && ind.Race == "" && ind.Sex == "" {
		return
	}

	row := payload.AddRow("demographics", &models.Row{Ref: "demographics_0", Operation: models.OpUpsert})
	row.Refs["_customer_ref"] = customerRefs[idx]
	row.Fields["ethnicity"] = asSequence(ind.Ethnicity)
	row.Fields["race"] = asSequence(ind.Race)
	row.Fields["sex"] = asSequence(ind.Sex)
}

func asSequence(v string) []string {
	if v == "" {
		return []string{}
	}
	return []string{v}
}
