package relational

import (
	"fmt"

	"loanforge/pkg/models"
)

func transformResidences(payload *models.RelationalPayload, customerRef string, p models.Party) {
	for i, addr := range p.Addresses {
		ref := fmt.Sprintf("%s_residence_%d", customerRef, i)
		row := payload.AddRow("residences", &models.Row{Ref: ref, Operation: models.OpInsert})
		row.Refs["_customer_ref"] = customerRef
		row.Fields["residency_type"] = residencyType(i)
		row.Fields["street"] = addr.Street
		row.Fields["city_state_zip"] = addr.CityStateZip
		row.Fields["city"] = addr.City
		row.Fields["state"] = addr.State
		row.Fields["zip"] = addr.Zip
	}
}

func residencyType(index int) string {
	if index == 0 {
		return "Current"
	}
	return "Prior"
}
