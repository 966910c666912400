package relational

import (
	"fmt"

	"loanforge/pkg/models"
)

func transformCustomer(payload *models.RelationalPayload, index int, p models.Party) string {
	ref := fmt.Sprintf("customer_%d", index)
	row := payload.AddRow("customers", &models.Row{Ref: ref, Operation: models.OpUpsert})
	row.Fields["full_name"] = p.Individual.FullName
	row.Fields["first_name"] = p.Individual.FirstName
	row.Fields["last_name"] = p.Individual.LastName
	row.Fields["ssn"] = p.Individual.SSN
	row.Fields["dob"] = p.Individual.DOB
	row.Fields["marital_status"] = p.Individual.MaritalStatus
	row.Fields["citizenship_residency"] = p.Individual.CitizenshipResidency
	row.Fields["phone"] = p.Individual.Phone
	return ref
}

func transformApplicationCustomer(payload *models.RelationalPayload, customerRef string, index int, p models.Party) string {
	ref := fmt.Sprintf("application_customer_%d", index)
	row := payload.AddRow("application_customers", &models.Row{Ref: ref, Operation: models.OpInsert})
	row.Refs["_application_ref"] = "application_0"
	row.Refs["_customer_ref"] = customerRef
	row.Fields["role"] = p.PartyRole.Value
	row.Fields["sequence_index"] = index
	return ref
}
