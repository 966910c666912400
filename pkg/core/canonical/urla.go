package canonical

import "loanforge/pkg/models"

// urlaStrategy maps the "urla_" prefix family. URLA is the richest
// single-document source: borrower identity, co-borrower, subject
// property, loan terms, and declarations all arrive in one form.
func urlaStrategy(flat models.FlatExtraction, meta models.DocumentMetadata) *models.CanonicalRecord {
	rec := models.NewCanonicalRecord(meta.SourceDocumentType, meta.SchemaVersion)
	rec.DocumentMetadata = meta

	borrower := baseParty(flat, "urla_borrower_name", "urla_borrower_ssn", models.PartyRoleBorrower)
	if addr := addressFromFlat(flat, "urla_borrower_street", "urla_borrower_city_state_zip"); addr != nil {
		borrower.Addresses = append(borrower.Addresses, *addr)
	}
	if emp := employmentFromURLA(flat, "urla_borrower"); emp != nil {
		borrower.Employment = append(borrower.Employment, *emp)
	}
	rec.Deal.Parties = append(rec.Deal.Parties, borrower)

	if str(flat, "urla_coborrower_name") != "" {
		coborrower := baseParty(flat, "urla_coborrower_name", "urla_coborrower_ssn", models.PartyRoleCoBorrower)
		if emp := employmentFromURLA(flat, "urla_coborrower"); emp != nil {
			coborrower.Employment = append(coborrower.Employment, *emp)
		}
		rec.Deal.Parties = append(rec.Deal.Parties, coborrower)
	}

	rec.Deal.Collateral.SubjectProperty = models.SubjectProperty{
		Address: models.Address{
			Street:       str(flat, "urla_property_street"),
			CityStateZip: str(flat, "urla_property_city_state_zip"),
		},
		SalesPrice: num(flat, "urla_sales_price"),
	}

	rec.Deal.TransactionInformation = models.TransactionInformation{
		LoanPurpose: models.EnumValue{Value: str(flat, "urla_loan_purpose")},
	}

	rec.Deal.DisclosuresAndClosing = models.DisclosuresAndClosing{
		PromissoryNote: models.PromissoryNote{
			PrincipalAmount: num(flat, "urla_loan_amount"),
			InterestRate:    num(flat, "urla_interest_rate"),
			TermMonths:      intPtr(flat, "urla_term_months"),
		},
		ApplicationDate: str(flat, "urla_application_date"),
	}

	rec.Deal.Identifiers = models.Identifiers{
		AgencyCaseNumber: str(flat, "urla_agency_case_number"),
	}

	return rec
}

func addressFromFlat(flat models.FlatExtraction, streetKey, cityStateZipKey string) *models.Address {
	street, csz := str(flat, streetKey), str(flat, cityStateZipKey)
	if street == "" && csz == "" {
		return nil
	}
	return &models.Address{Street: street, CityStateZip: csz, AddressType: "Current"}
}

func employmentFromURLA(flat models.FlatExtraction, prefix string) *models.Employment {
	name := str(flat, prefix+"_employer_name")
	if name == "" {
		return nil
	}
	emp := &models.Employment{
		EmployerName:     name,
		PositionTitle:    str(flat, prefix+"_position_title"),
		EmploymentStatus: models.EnumValue{Value: "Current"},
	}
	if base := num(flat, prefix+"_monthly_income"); base != nil {
		emp.MonthlyIncome = &models.MonthlyIncome{Base: base}
	}
	return emp
}
