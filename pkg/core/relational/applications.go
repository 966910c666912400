package relational

import "loanforge/pkg/models"

func transformApplication(payload *models.RelationalPayload, rec *models.CanonicalRecord, propertyRef, primaryCustomerRef string, finalLoanAmount *float64) string {
	note := rec.Deal.DisclosuresAndClosing.PromissoryNote

	loanAmount := note.PrincipalAmount
	if finalLoanAmount != nil {
		loanAmount = finalLoanAmount
	}

	row := payload.AddRow("applications", &models.Row{Ref: "application_0", Operation: models.OpUpsert})
	row.Refs["_property_ref"] = propertyRef
	row.Refs["_primary_customer_ref"] = primaryCustomerRef
	row.Fields["loan_amount"] = loanAmount
	row.Fields["application_number"] = rec.Deal.Identifiers.AgencyCaseNumber
	row.Fields["occupancy_type"] = rec.Deal.Collateral.SubjectProperty.OccupancyType

	keyInfo := map[string]interface{}{
		"loan_purpose":      rec.Deal.TransactionInformation.LoanPurpose.Value,
		"amortization_type": rec.Deal.TransactionInformation.Amortization,
		"mortgage_type":     rec.Deal.TransactionInformation.MortgageType,
		"application_date":  rec.Deal.DisclosuresAndClosing.ApplicationDate,
		"closing_date":      rec.Deal.DisclosuresAndClosing.ClosingDate,
		"promissory_note": map[string]interface{}{
			"principal_amount": note.PrincipalAmount,
			"interest_rate":    note.InterestRate,
			"term_months":      note.TermMonths,
			"maturity_date":    note.MaturityDate,
		},
		"identifiers": map[string]interface{}{
			"agency_case_number": rec.Deal.Identifiers.AgencyCaseNumber,
			"lender_loan_number": rec.Deal.Identifiers.LenderLoanNumber,
		},
	}
	if rec.Deal.DisclosuresAndClosing.H24 != nil {
		keyInfo["h24_details"] = rec.Deal.DisclosuresAndClosing.H24
	}
	if rec.Deal.DisclosuresAndClosing.H25 != nil {
		keyInfo["h25_details"] = rec.Deal.DisclosuresAndClosing.H25
	}
	if lender := lenderParty(rec); lender != nil {
		keyInfo["lender"] = map[string]interface{}{
			"company_name":     lender.CompanyName,
			"loan_officer_name": lender.Individual.FullName,
			"loan_officer_nmls": lender.NMLSID,
		}
	}
	row.Fields["key_information"] = keyInfo

	return row.Ref
}
