package canonical

import "loanforge/pkg/models"

// taxReturnStrategy maps the "tax_" prefix family (Form 1040) onto a
// party's IVF and a self-employment Employment entry when the filer
// reports self-employment income.
func taxReturnStrategy(flat models.FlatExtraction, meta models.DocumentMetadata) *models.CanonicalRecord {
	rec := models.NewCanonicalRecord(meta.SourceDocumentType, meta.SchemaVersion)
	rec.DocumentMetadata = meta

	borrower := baseParty(flat, "tax_filer_name", "tax_filer_ssn", models.PartyRoleBorrower)

	if agi := num(flat, "tax_adjusted_gross_income"); agi != nil {
		borrower.IncomeVerificationFrags = append(borrower.IncomeVerificationFrags, models.IVF{
			SourceDocument: string(models.DocTypeTaxReturn1040),
			Fields: map[string]interface{}{
				"adjusted_gross_income": *agi,
			},
		})
	}

	if seIncome := num(flat, "tax_self_employment_income"); seIncome != nil {
		monthly := *seIncome / 12
		borrower.SelfEmployment = append(borrower.SelfEmployment, models.Employment{
			EmployerName:     str(flat, "tax_business_name"),
			EmploymentStatus: models.EnumValue{Value: "SelfEmployed"},
			IsSelfEmployed:   true,
			MonthlyIncome:    &models.MonthlyIncome{Base: &monthly, Total: &monthly},
			BusinessAddress: &models.Address{
				Street:       str(flat, "tax_business_street"),
				CityStateZip: str(flat, "tax_business_city_state_zip"),
			},
		})
	}

	rec.Deal.Parties = append(rec.Deal.Parties, borrower)
	return rec
}
