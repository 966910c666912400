package canonical

import "loanforge/pkg/models"

func str(flat models.FlatExtraction, key string) string {
	if v, ok := flat[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func num(flat models.FlatExtraction, key string) *float64 {
	v, ok := flat[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case float64:
		return &t
	case int:
		f := float64(t)
		return &f
	}
	return nil
}

func intPtr(flat models.FlatExtraction, key string) *int {
	v, ok := flat[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case int:
		return &t
	case float64:
		n := int(t)
		return &n
	}
	return nil
}

// baseParty builds a Borrower party shell with name/SSN populated from
// the given flat keys, the composition every strategy shares.
func baseParty(flat models.FlatExtraction, nameKey, ssnKey string, role string) models.Party {
	return models.Party{
		Individual: models.Individual{
			FullName: str(flat, nameKey),
			SSN:      str(flat, ssnKey),
		},
		PartyRole: models.EnumValue{Value: role},
	}
}

func bankAssetFromFlat(flat models.FlatExtraction) models.Asset {
	return models.Asset{
		InstitutionName:         str(flat, "bank_institution_name"),
		AccountNumber:           str(flat, "bank_account_number"),
		AssetType:               models.EnumValue{Value: "CheckingAccount"},
		CashOrMarketValueAmount: num(flat, "bank_ending_balance"),
		EndingBalance:           num(flat, "bank_ending_balance"),
	}
}

func employmentFromFlat(flat models.FlatExtraction, prefix string) models.Employment {
	emp := models.Employment{
		EmployerName:     str(flat, prefix+"_employer_name"),
		EmploymentStatus: models.EnumValue{Value: "Current"},
	}
	if base := num(flat, prefix+"_monthly_income"); base != nil {
		emp.MonthlyIncome = &models.MonthlyIncome{Base: base}
	}
	return emp
}
