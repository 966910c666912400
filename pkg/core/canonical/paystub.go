package canonical

import "loanforge/pkg/models"

// payStubStrategy maps the "paystub_" prefix family: the extracted
// annual income divided into an Employment monthly_income snapshot, kept
// alongside its IVF so the Lead Capture manager's income-mismatch check
// can compare it against the stated figure.
func payStubStrategy(flat models.FlatExtraction, meta models.DocumentMetadata) *models.CanonicalRecord {
	rec := models.NewCanonicalRecord(meta.SourceDocumentType, meta.SchemaVersion)
	rec.DocumentMetadata = meta

	borrower := baseParty(flat, "paystub_employee_name", "paystub_employee_ssn", models.PartyRoleBorrower)

	emp := models.Employment{
		EmployerName:     str(flat, "paystub_employer_name"),
		EmploymentStatus: models.EnumValue{Value: "Current"},
	}
	if annual := num(flat, "paystub_annual_income"); annual != nil {
		monthly := *annual / 12
		emp.MonthlyIncome = &models.MonthlyIncome{Base: &monthly, Total: &monthly}
		borrower.IncomeVerificationFrags = append(borrower.IncomeVerificationFrags, models.IVF{
			SourceDocument: string(models.DocTypePayStub),
			Fields: map[string]interface{}{
				"annual_income": *annual,
			},
		})
	}
	borrower.Employment = append(borrower.Employment, emp)

	rec.Deal.Parties = append(rec.Deal.Parties, borrower)
	return rec
}
