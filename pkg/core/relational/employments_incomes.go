package relational

import (
	"fmt"
	"strings"

	"loanforge/pkg/models"
)

func transformEmployments(payload *models.RelationalPayload, customerRef string, p models.Party) {
	for i, emp := range p.Employment {
		empRef := fmt.Sprintf("%s_employment_%d", customerRef, i)
		row := payload.AddRow("employments", &models.Row{Ref: empRef, Operation: models.OpInsert})
		row.Refs["_customer_ref"] = customerRef
		row.Fields["employer_name"] = emp.EmployerName
		row.Fields["position_title"] = emp.PositionTitle
		row.Fields["employer_ein"] = emp.EmployerEIN
		row.Fields["business_phone"] = emp.BusinessPhone
		row.Fields["employment_status"] = emp.EmploymentStatus.Value
		row.Fields["start_date"] = emp.StartDate
		row.Fields["end_date"] = emp.EndDate
		row.Fields["employment_type"] = "W2"

		transformIncomes(payload, customerRef, empRef, emp.MonthlyIncome)
	}

	for i, emp := range p.SelfEmployment {
		empRef := fmt.Sprintf("%s_self_employment_%d", customerRef, i)
		row := payload.AddRow("employments", &models.Row{Ref: empRef, Operation: models.OpInsert})
		row.Refs["_customer_ref"] = customerRef
		row.Fields["employer_name"] = emp.EmployerName
		row.Fields["employment_status"] = emp.EmploymentStatus.Value
		row.Fields["employment_type"] = "SelfEmployed"
		row.Fields["is_self_employed"] = true
		if emp.BusinessAddress != nil {
			row.Fields["employer_street"] = emp.BusinessAddress.Street
			row.Fields["employer_city_state_zip"] = emp.BusinessAddress.CityStateZip
		}

		transformIncomes(payload, customerRef, empRef, emp.MonthlyIncome)
	}
}

// transformIncomes fans a MonthlyIncome sub-structure out into one
// "incomes" row per populated non-total component. Total is excluded:
// it is a derived sum, not an independently sourced income type.
func transformIncomes(payload *models.RelationalPayload, customerRef, employmentRef string, mi *models.MonthlyIncome) {
	if mi == nil {
		return
	}
	components := []struct {
		name   string
		amount *float64
	}{
		{"Base", mi.Base},
		{"Overtime", mi.Overtime},
		{"Bonus", mi.Bonus},
		{"Commission", mi.Commission},
	}
	for _, c := range components {
		if c.amount == nil {
			continue
		}
		ref := fmt.Sprintf("%s_income_%s", employmentRef, strings.ToLower(c.name))
		row := payload.AddRow("incomes", &models.Row{Ref: ref, Operation: models.OpInsert})
		row.Refs["_customer_ref"] = customerRef
		row.Refs["_employment_ref"] = employmentRef
		row.Fields["income_type"] = c.name
		row.Fields["amount"] = *c.amount
		row.Fields["frequency"] = "Monthly"
	}
}
