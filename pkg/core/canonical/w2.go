package canonical

import "loanforge/pkg/models"

// w2Strategy maps the "w2_" prefix family onto a single-party record
// carrying annualized wage income, converted to the Employment
// monthly_income sub-structure every strategy shares.
func w2Strategy(flat models.FlatExtraction, meta models.DocumentMetadata) *models.CanonicalRecord {
	rec := models.NewCanonicalRecord(meta.SourceDocumentType, meta.SchemaVersion)
	rec.DocumentMetadata = meta

	borrower := baseParty(flat, "w2_employee_name", "w2_employee_ssn", models.PartyRoleBorrower)

	emp := models.Employment{
		EmployerName:     str(flat, "w2_employer_name"),
		EmployerEIN:      str(flat, "w2_employer_ein"),
		EmploymentStatus: models.EnumValue{Value: "Current"},
	}
	if annual := num(flat, "w2_wages_annual"); annual != nil {
		monthly := *annual / 12
		emp.MonthlyIncome = &models.MonthlyIncome{Base: &monthly, Total: &monthly}
	}
	borrower.Employment = append(borrower.Employment, emp)

	if src := str(flat, "w2_employee_ssn"); src != "" {
		borrower.IncomeVerificationFrags = append(borrower.IncomeVerificationFrags, models.IVF{
			SourceDocument: string(models.DocTypeW2),
			Fields: map[string]interface{}{
				"wages_annual": flat["w2_wages_annual"],
			},
		})
	}

	rec.Deal.Parties = append(rec.Deal.Parties, borrower)
	return rec
}
