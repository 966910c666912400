package relational

import "loanforge/pkg/models"

func transformProperty(payload *models.RelationalPayload, rec *models.CanonicalRecord) string {
	sp := rec.Deal.Collateral.SubjectProperty
	row := payload.AddRow("properties", &models.Row{Ref: "property_0", Operation: models.OpUpsert})
	row.Fields["address"] = map[string]interface{}{
		"street":         sp.Address.Street,
		"city_state_zip": sp.Address.CityStateZip,
		"city":           sp.Address.City,
		"state":          sp.Address.State,
		"zip":            sp.Address.Zip,
	}
	row.Fields["property_type"] = sp.PropertyType
	row.Fields["occupancy_type"] = sp.OccupancyType
	row.Fields["sales_price"] = sp.SalesPrice
	row.Fields["appraised_value"] = sp.AppraisedValue
	row.Fields["year_built"] = sp.YearBuilt
	return row.Ref
}
