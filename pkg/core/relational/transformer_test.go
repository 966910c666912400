package relational

import (
	"testing"

	"loanforge/pkg/models"
)

func sampleRecord() *models.CanonicalRecord {
	rec := models.NewCanonicalRecord(models.DocTypeURLA, "1.0")
	base := 5000.0
	amount := 300000.0
	price := 350000.0
	rec.Deal.Parties = []models.Party{
		{
			Individual: models.Individual{FullName: "John Smith", SSN: "123-45-6789", Ethnicity: "Not Hispanic", Race: "White", Sex: "Male"},
			PartyRole:  models.EnumValue{Value: models.PartyRoleBorrower},
			Addresses:  []models.Address{{Street: "1 First St"}, {Street: "2 Second St"}},
			Employment: []models.Employment{
				{EmployerName: "Acme Corp", EmploymentStatus: models.EnumValue{Value: "Current"}, MonthlyIncome: &models.MonthlyIncome{Base: &base}},
			},
			Assets: []models.Asset{
				{InstitutionName: "Chase", CashOrMarketValueAmount: &amount, AssetType: models.EnumValue{Value: "CheckingAccount"}},
			},
		},
		{
			CompanyName: "Big Bank",
			NMLSID:      "12345",
			Individual:  models.Individual{FullName: "Loan Officer"},
			PartyRole:   models.EnumValue{Value: models.PartyRoleLender},
		},
	}
	rec.Deal.Collateral.SubjectProperty = models.SubjectProperty{
		Address:    models.Address{Street: "123 Main St"},
		SalesPrice: &price,
	}
	rec.Deal.DisclosuresAndClosing.PromissoryNote.PrincipalAmount = &amount
	return rec
}

func TestTransform_PropertyRow(t *testing.T) {
	rec := sampleRecord()
	payload, _ := Transform(rec, nil)
	rows := payload.Tables["properties"]
	if len(rows) != 1 {
		t.Fatalf("expected exactly one properties row, got %d", len(rows))
	}
	if rows[0].Ref != "property_0" {
		t.Errorf("expected ref property_0, got %s", rows[0].Ref)
	}
}

func TestTransform_OnlyNonLenderPartiesBecomeCustomers(t *testing.T) {
	rec := sampleRecord()
	payload, _ := Transform(rec, nil)
	if len(payload.Tables["customers"]) != 1 {
		t.Fatalf("expected exactly one customer row (lender excluded), got %d", len(payload.Tables["customers"]))
	}
}

func TestTransform_FinalLoanAmountPreferred(t *testing.T) {
	rec := sampleRecord()
	override := 275000.0
	payload, _ := Transform(rec, &override)
	app := payload.Tables["applications"][0]
	if app.Fields["loan_amount"].(*float64) == nil || *app.Fields["loan_amount"].(*float64) != override {
		t.Fatalf("expected final_loan_amount override to win over note principal, got %v", app.Fields["loan_amount"])
	}
}

func TestTransform_LenderPreservedOnApplication(t *testing.T) {
	rec := sampleRecord()
	payload, _ := Transform(rec, nil)
	app := payload.Tables["applications"][0]
	keyInfo := app.Fields["key_information"].(map[string]interface{})
	lender, ok := keyInfo["lender"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected lender info on applications.key_information")
	}
	if lender["company_name"] != "Big Bank" {
		t.Errorf("expected lender company_name Big Bank, got %v", lender["company_name"])
	}
}

func TestTransform_ResidencyTypes(t *testing.T) {
	rec := sampleRecord()
	payload, _ := Transform(rec, nil)
	residences := payload.Tables["residences"]
	if len(residences) != 2 {
		t.Fatalf("expected 2 residence rows, got %d", len(residences))
	}
	if residences[0].Fields["residency_type"] != "Current" {
		t.Errorf("expected first residence to be Current, got %v", residences[0].Fields["residency_type"])
	}
	if residences[1].Fields["residency_type"] != "Prior" {
		t.Errorf("expected second residence to be Prior, got %v", residences[1].Fields["residency_type"])
	}
}

func TestTransform_IncomeFanOutExcludesTotal(t *testing.T) {
	rec := sampleRecord()
	payload, _ := Transform(rec, nil)
	incomes := payload.Tables["incomes"]
	if len(incomes) != 1 {
		t.Fatalf("expected exactly one income row (Base only), got %d", len(incomes))
	}
	if incomes[0].Fields["income_type"] != "Base" {
		t.Errorf("expected income_type Base, got %v", incomes[0].Fields["income_type"])
	}
}

func TestTransform_AssetFallsBackToEndingBalance(t *testing.T) {
	rec := sampleRecord()
	rec.Deal.Parties[0].Assets[0].CashOrMarketValueAmount = nil
	ending := 1000.0
	rec.Deal.Parties[0].Assets[0].EndingBalance = &ending
	payload, _ := Transform(rec, nil)
	asset := payload.Tables["assets"][0]
	if asset.Fields["asset_value"] != ending {
		t.Errorf("expected asset_value to fall back to ending_balance, got %v", asset.Fields["asset_value"])
	}
}

func TestTransform_DemographicsWrappedAsSequence(t *testing.T) {
	rec := sampleRecord()
	payload, _ := Transform(rec, nil)
	demo := payload.Tables["demographics"][0]
	race, ok := demo.Fields["race"].([]string)
	if !ok || len(race) != 1 || race[0] != "White" {
		t.Fatalf("expected race wrapped as single-element sequence, got %v", demo.Fields["race"])
	}
}

func TestTransform_UnmappedDeclarationsWarn(t *testing.T) {
	rec := sampleRecord()
	rec.Deal.Parties[0].Declarations = map[string]interface{}{"bankruptcy_last_7_years": true}
	_, warnings := Transform(rec, nil)
	if len(warnings) != 1 {
		t.Fatalf("expected one diagnostic warning for unmapped declarations, got %d", len(warnings))
	}
}
