package mismo

import (
	"fmt"

	"loanforge/pkg/models"
)

// EmitterConfig selects the MISMO namespace/version variant to target.
// Resolves the "3.4 vs 3.6" Open Question: the Non-goals name no
// business-policy reason to prefer one, so this is left selectable
// rather than hardcoded, defaulting to 3.4 as the spec's worked example
// uses.
type EmitterConfig struct {
	SchemaVersion string // "3.4" or "3.6"
}

func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{SchemaVersion: "3.4"}
}

const mismoNamespace = "http://www.mismo.org/residential/2009/schemas"

// Emit renders rec as a MISMO XML document per the fixed element order
// in §4.J: PARTIES, then COLLATERALS, then LOANS.
func Emit(rec *models.CanonicalRecord, cfg EmitterConfig) string {
	b := NewBuilder()

	b.Open("MESSAGE", "xmlns", mismoNamespace)
	b.Open("ABOUT_VERSIONS")
	b.Open("ABOUT_VERSION")
	b.Leaf("MISMOReferenceModelIdentifier", cfg.SchemaVersion)
	b.Close("ABOUT_VERSION")
	b.Close("ABOUT_VERSIONS")

	b.Open("DEAL_SETS")
	b.Open("DEAL_SET")
	b.Open("DEALS")
	b.Open("DEAL")

	emitParties(b, rec)
	emitCollaterals(b, rec)
	emitLoans(b, rec)

	b.Close("DEAL")
	b.Close("DEALS")
	b.Close("DEAL_SET")
	b.Close("DEAL_SETS")
	b.Close("MESSAGE")

	return b.String()
}

func emitParties(b *Builder, rec *models.CanonicalRecord) {
	b.Open("PARTIES")
	for _, p := range rec.Deal.Parties {
		emitParty(b, p)
	}
	b.Close("PARTIES")
}

func emitParty(b *Builder, p models.Party) {
	b.Open("PARTY")

	b.Open("INDIVIDUAL")
	name := splitName(p.Individual.FullName)
	b.Open("NAME")
	b.Leaf("FirstName", name.First)
	b.Leaf("MiddleName", name.Middle)
	b.Leaf("LastName", name.Last)
	b.Close("NAME")
	b.Leaf("BirthDate", p.Individual.DOB)
	b.Leaf("MaritalStatusType", p.Individual.MaritalStatus)
	b.Close("INDIVIDUAL")

	if p.Individual.SSN != "" {
		b.Open("TAXPAYER_IDENTIFIERS")
		b.Open("TAXPAYER_IDENTIFIER")
		b.Leaf("TaxpayerIdentifierType", "SocialSecurityNumber")
		b.Leaf("TaxpayerIdentifierValue", p.Individual.SSN)
		b.Close("TAXPAYER_IDENTIFIER")
		b.Close("TAXPAYER_IDENTIFIERS")
	}

	if p.Individual.Phone != "" {
		b.Open("CONTACT_POINTS")
		b.Open("CONTACT_POINT")
		b.Open("CONTACT_POINT_TELEPHONE")
		b.Leaf("ContactPointTelephoneValue", p.Individual.Phone)
		b.Close("CONTACT_POINT_TELEPHONE")
		b.Close("CONTACT_POINT")
		b.Close("CONTACT_POINTS")
	}

	emitAddresses(b, p.Addresses)

	b.Open("ROLES")
	b.Open("ROLE")
	b.Open("ROLE_DETAIL")
	b.Leaf("PartyRoleType", p.PartyRole.Value)
	b.Close("ROLE_DETAIL")
	b.Close("ROLE")
	b.Close("ROLES")

	if p.PartyRole.Value == models.PartyRoleBorrower || p.PartyRole.Value == models.PartyRoleCoBorrower {
		emitBorrowerBlock(b, p)
	}

	b.Close("PARTY")
}

func emitAddresses(b *Builder, addresses []models.Address) {
	if len(addresses) == 0 {
		return
	}
	b.Open("ADDRESSES")
	for _, a := range addresses {
		parsed := parseCityStateZip(a.CityStateZip)
		b.Open("ADDRESS")
		b.Leaf("AddressLineText", a.Street)
		b.Leaf("CityName", firstNonEmpty(a.City, parsed.City))
		b.Leaf("StateCode", firstNonEmpty(a.State, parsed.State))
		b.Leaf("PostalCode", firstNonEmpty(a.Zip, parsed.Zip))
		b.Close("ADDRESS")
	}
	b.Close("ADDRESSES")
}

func emitBorrowerBlock(b *Builder, p models.Party) {
	b.Open("BORROWER")

	if len(p.Employment) > 0 {
		b.Open("EMPLOYERS")
		for _, emp := range p.Employment {
			b.Open("EMPLOYER")
			b.Open("LEGAL_ENTITY")
			b.Leaf("FullName", emp.EmployerName)
			b.Close("LEGAL_ENTITY")
			b.Leaf("EmploymentPositionDescription", emp.PositionTitle)
			b.Leaf("EmploymentStatusType", emp.EmploymentStatus.Value)
			b.Leaf("SelfEmployedIndicator", boolLeaf(emp.IsSelfEmployed))
			b.Close("EMPLOYER")
		}
		b.Close("EMPLOYERS")

		if emp := p.Employment[0]; emp.MonthlyIncome != nil {
			emitCurrentIncome(b, emp.MonthlyIncome)
		}
	}

	if p.Individual.CitizenshipResidency != "" {
		b.Open("DECLARATION")
		b.Open("DECLARATION_DETAIL")
		b.Leaf("CitizenshipResidencyType", p.Individual.CitizenshipResidency)
		b.Close("DECLARATION_DETAIL")
		b.Close("DECLARATION")
	}

	b.Close("BORROWER")
}

func emitCurrentIncome(b *Builder, mi *models.MonthlyIncome) {
	items := []struct {
		incomeType string
		amount     *float64
	}{
		{"Base", mi.Base},
		{"Overtime", mi.Overtime},
		{"Bonus", mi.Bonus},
		{"Commission", mi.Commission},
	}
	hasAny := false
	for _, it := range items {
		if it.amount != nil {
			hasAny = true
			break
		}
	}
	if !hasAny {
		return
	}

	b.Open("CURRENT_INCOME")
	b.Open("CURRENT_INCOME_ITEMS")
	for _, it := range items {
		if it.amount == nil {
			continue
		}
		b.Open("CURRENT_INCOME_ITEM")
		b.Leaf("IncomeType", it.incomeType)
		b.Leaf("CurrentIncomeMonthlyTotalAmount", fmt.Sprintf("%.2f", *it.amount))
		b.Close("CURRENT_INCOME_ITEM")
	}
	b.Close("CURRENT_INCOME_ITEMS")
	b.Close("CURRENT_INCOME")
}

func emitCollaterals(b *Builder, rec *models.CanonicalRecord) {
	sp := rec.Deal.Collateral.SubjectProperty
	b.Open("COLLATERALS")
	b.Open("COLLATERAL")
	b.Open("SUBJECT_PROPERTY")

	parsed := parseCityStateZip(sp.Address.CityStateZip)
	b.Open("ADDRESS")
	b.Leaf("AddressLineText", sp.Address.Street)
	b.Leaf("CityName", firstNonEmpty(sp.Address.City, parsed.City))
	b.Leaf("StateCode", firstNonEmpty(sp.Address.State, parsed.State))
	b.Leaf("PostalCode", firstNonEmpty(sp.Address.Zip, parsed.Zip))
	b.Close("ADDRESS")

	b.Open("PROPERTY_DETAIL")
	b.Leaf("PropertyType", sp.PropertyType)
	b.Leaf("PropertyEstateType", sp.OccupancyType)
	b.Close("PROPERTY_DETAIL")

	if sp.AppraisedValue != nil {
		b.Open("PROPERTY_VALUATIONS")
		b.Open("PROPERTY_VALUATION")
		b.Leaf("PropertyValuationAmount", fmt.Sprintf("%.2f", *sp.AppraisedValue))
		b.Close("PROPERTY_VALUATION")
		b.Close("PROPERTY_VALUATIONS")
	}

	b.Close("SUBJECT_PROPERTY")
	b.Close("COLLATERAL")
	b.Close("COLLATERALS")
}

func emitLoans(b *Builder, rec *models.CanonicalRecord) {
	ti := rec.Deal.TransactionInformation
	note := rec.Deal.DisclosuresAndClosing.PromissoryNote

	b.Open("LOANS")
	b.Open("LOAN")

	b.Open("LOAN_IDENTIFIERS")
	b.Open("LOAN_IDENTIFIER")
	b.Leaf("LoanIdentifierType", "AgencyCaseNumber")
	b.Leaf("LoanIdentifier", rec.Deal.Identifiers.AgencyCaseNumber)
	b.Close("LOAN_IDENTIFIER")
	b.Close("LOAN_IDENTIFIERS")

	b.Open("AMORTIZATION")
	b.Open("AMORTIZATION_RULE")
	b.Leaf("AmortizationType", ti.Amortization)
	b.Close("AMORTIZATION_RULE")
	b.Close("AMORTIZATION")

	b.Open("LOAN_DETAIL")
	b.Leaf("ApplicationReceivedDate", rec.Deal.DisclosuresAndClosing.ApplicationDate)
	b.Leaf("MortgageType", ti.MortgageType)
	b.Close("LOAN_DETAIL")

	b.Open("TERMS_OF_LOAN")
	if note.PrincipalAmount != nil {
		b.Leaf("NoteAmount", fmt.Sprintf("%.2f", *note.PrincipalAmount))
	}
	if note.InterestRate != nil {
		b.Leaf("NoteRatePercent", fmt.Sprintf("%.3f", *note.InterestRate))
	}
	if note.TermMonths != nil {
		b.Leaf("LoanMaturityPeriodCount", fmt.Sprintf("%d", *note.TermMonths))
	}
	b.Close("TERMS_OF_LOAN")

	b.Leaf("LOAN_PURPOSE", ti.LoanPurpose.Value)

	b.Open("CLOSING_INFORMATION")
	b.Open("CLOSING_INFORMATION_DETAIL")
	b.Leaf("DisclosureDate", rec.Deal.DisclosuresAndClosing.ClosingDate)
	b.Close("CLOSING_INFORMATION_DETAIL")
	b.Close("CLOSING_INFORMATION")

	b.Close("LOAN")
	b.Close("LOANS")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func boolLeaf(v bool) string {
	if v {
		return "true"
	}
	return ""
}
