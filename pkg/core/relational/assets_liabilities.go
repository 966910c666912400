package relational

import (
	"fmt"

	"loanforge/pkg/models"
)

func transformAssets(payload *models.RelationalPayload, customerRef string, p models.Party) {
	for i, asset := range p.Assets {
		ref := fmt.Sprintf("%s_asset_%d", customerRef, i)
		row := payload.AddRow("assets", &models.Row{Ref: ref, Operation: models.OpInsert})
		row.Refs["_customer_ref"] = customerRef

		value := asset.CashOrMarketValueAmount
		if value == nil {
			value = asset.EndingBalance
		}
		if value == nil {
			zero := 0.0
			value = &zero
		}
		row.Fields["asset_value"] = *value

		assetType := asset.AssetType.Value
		if assetType == "" {
			assetType = "CheckingAccount"
		}
		row.Fields["asset_type"] = assetType
		row.Fields["institution_name"] = asset.InstitutionName
		row.Fields["account_number"] = asset.AccountNumber
	}
}

// transformLiabilities emits one synthetic row carrying each non-Lender
// party's aggregate liability figures, plus one detailed row per
// deal-level liability entry.
func transformLiabilities(payload *models.RelationalPayload, rec *models.CanonicalRecord, customerRefs []string) {
	for i, p := range rec.Deal.Parties {
		if p.PartyRole.Value == models.PartyRoleLender {
			continue
		}
		total := partyLiabilityTotal(p)
		if total == nil {
			continue
		}
		ref := fmt.Sprintf("%s_liability_totals", customerRefs[i])
		row := payload.AddRow("liabilities", &models.Row{Ref: ref, Operation: models.OpInsert})
		row.Refs["_customer_ref"] = customerRefs[i]
		row.Fields["liability_type"] = "AggregateTotals"
		row.Fields["unpaid_balance"] = total
	}

	for i, liab := range rec.Deal.Liabilities {
		ref := fmt.Sprintf("liability_%d", i)
		row := payload.AddRow("liabilities", &models.Row{Ref: ref, Operation: models.OpInsert})
		row.Fields["creditor_name"] = liab.CreditorName
		row.Fields["liability_type"] = liab.LiabilityType.Value

		balance := liab.UnpaidBalance
		if balance == nil {
			balance = cleanedAmount(liab.RawBalanceText)
		}
		row.Fields["unpaid_balance"] = balance

		monthlyPayment := liab.MonthlyPayment
		if monthlyPayment == nil {
			zero := 0.0
			monthlyPayment = &zero
		}
		row.Fields["monthly_payment"] = *monthlyPayment
	}
}

// partyLiabilityTotal reads a party's Declarations bag for the totals
// the spec names; these are strategy-populated scalars, not a
// dedicated struct field, so they are read defensively.
func partyLiabilityTotal(p models.Party) *float64 {
	if p.Declarations == nil {
		return nil
	}
	if v, ok := p.Declarations["total_liabilities"]; ok {
		if f, ok := v.(float64); ok {
			return &f
		}
	}
	return nil
}
