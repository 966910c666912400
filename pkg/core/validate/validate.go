// Package validate checks a CanonicalRecord for structural and logical
// invariants after assembly and before relational lowering. Every check
// here is a pure function: Validate never mutates its input, it only
// reports what it finds.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"loanforge/pkg/core/utils"
	"loanforge/pkg/models"
)

var ssnPattern = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)

// Validate runs every check below and returns the accumulated issue
// list. The record itself is never modified.
func Validate(rec *models.CanonicalRecord) []models.ValidationIssue {
	var issues []models.ValidationIssue

	issues = append(issues, checkCriticalPresence(rec)...)
	issues = append(issues, checkBorrowerFormats(rec)...)
	issues = append(issues, checkEmployment(rec)...)
	issues = append(issues, checkIncomeAmounts(rec)...)
	issues = append(issues, checkLoanAmount(rec)...)
	issues = append(issues, checkSubjectProperty(rec)...)
	issues = append(issues, checkEnums(rec)...)

	return issues
}

var (
	partyRoleOptions        = []string{models.PartyRoleBorrower, models.PartyRoleCoBorrower, models.PartyRoleLender}
	employmentStatusOptions = []string{"Current", "Previous", "SelfEmployed"}
	assetTypeOptions        = []string{"CheckingAccount", "SavingsAccount", "CD", "MoneyMarket", "Stock", "Bond", "Retirement"}
)

func checkEnums(rec *models.CanonicalRecord) []models.ValidationIssue {
	var out []models.ValidationIssue

	for pi, p := range rec.Deal.Parties {
		path := fmt.Sprintf("deal.parties[%d].party_role", pi)
		if fi := ValidateEnum(path, p.PartyRole.Value, partyRoleOptions, false); fi != nil {
			out = append(out, issue(models.SeverityLogic, fi.Path, fi.Message))
		}
		if p.PartyRole.Value == models.PartyRoleLender {
			continue
		}
		for ei, emp := range p.Employment {
			path := fmt.Sprintf("deal.parties[%d].employment[%d].employment_status", pi, ei)
			if fi := ValidateEnum(path, emp.EmploymentStatus.Value, employmentStatusOptions, true); fi != nil {
				out = append(out, issue(models.SeverityLogic, fi.Path, fi.Message))
			}
		}
		for ai, asset := range p.Assets {
			path := fmt.Sprintf("deal.parties[%d].assets[%d].asset_type", pi, ai)
			if fi := ValidateEnum(path, asset.AssetType.Value, assetTypeOptions, true); fi != nil {
				out = append(out, issue(models.SeverityLogic, fi.Path, fi.Message))
			}
		}
	}

	return out
}

func issue(sev models.Severity, path, msg string) models.ValidationIssue {
	return models.ValidationIssue{Severity: sev, Path: path, Message: msg}
}

// primaryBorrower returns the first non-Lender party and its index, or
// (nil, -1) when the deal has no borrower. Lender parties are skipped
// for every borrower-specific check per the spec's explicit carve-out.
func primaryBorrower(rec *models.CanonicalRecord) (*models.Party, int) {
	for i := range rec.Deal.Parties {
		if rec.Deal.Parties[i].PartyRole.Value != models.PartyRoleLender {
			return &rec.Deal.Parties[i], i
		}
	}
	return nil, -1
}

func checkCriticalPresence(rec *models.CanonicalRecord) []models.ValidationIssue {
	var out []models.ValidationIssue

	borrower, idx := primaryBorrower(rec)
	if borrower == nil {
		out = append(out, issue(models.SeverityCritical, "deal.parties", "no borrower party present"))
		idx = 0
	} else {
		if strings.TrimSpace(borrower.Individual.FullName) == "" {
			out = append(out, issue(models.SeverityCritical, fmt.Sprintf("deal.parties[%d].individual.full_name", idx), "borrower name is missing"))
		}
		if strings.TrimSpace(borrower.Individual.SSN) == "" {
			out = append(out, issue(models.SeverityCritical, fmt.Sprintf("deal.parties[%d].individual.ssn", idx), "borrower SSN is missing"))
		}
	}

	if rec.Deal.DisclosuresAndClosing.PromissoryNote.PrincipalAmount == nil {
		out = append(out, issue(models.SeverityCritical, "deal.disclosures_and_closing.promissory_note.principal_amount", "loan amount is missing"))
	}

	if strings.TrimSpace(rec.Deal.TransactionInformation.LoanPurpose.Value) == "" {
		out = append(out, issue(models.SeverityCritical, "deal.transaction_information.loan_purpose", "loan purpose is missing"))
	}

	addr := rec.Deal.Collateral.SubjectProperty.Address
	if strings.TrimSpace(addr.Street) == "" && strings.TrimSpace(addr.CityStateZip) == "" {
		out = append(out, issue(models.SeverityCritical, "deal.collateral.subject_property.address", "subject property address is missing"))
	}

	return out
}

func checkBorrowerFormats(rec *models.CanonicalRecord) []models.ValidationIssue {
	var out []models.ValidationIssue

	for i, p := range rec.Deal.Parties {
		if p.PartyRole.Value == models.PartyRoleLender {
			continue
		}
		if ssn := p.Individual.SSN; ssn != "" && !ssnPattern.MatchString(ssn) {
			out = append(out, issue(models.SeverityFormat, fmt.Sprintf("deal.parties[%d].individual.ssn", i), fmt.Sprintf("SSN %q does not match ###-##-####", ssn)))
		}
		if dob := p.Individual.DOB; dob != "" && !utils.IsWellFormedDate(dob) {
			out = append(out, issue(models.SeverityFormat, fmt.Sprintf("deal.parties[%d].individual.dob", i), fmt.Sprintf("DOB %q is not MM/DD/YYYY or YYYY-MM-DD", dob)))
		}
	}

	if appDate := rec.Deal.DisclosuresAndClosing.ApplicationDate; appDate != "" && !utils.IsWellFormedDate(appDate) {
		out = append(out, issue(models.SeverityFormat, "deal.disclosures_and_closing.application_date", fmt.Sprintf("application_date %q is not MM/DD/YYYY or YYYY-MM-DD", appDate)))
	}

	return out
}

func checkEmployment(rec *models.CanonicalRecord) []models.ValidationIssue {
	var out []models.ValidationIssue

	for pi, p := range rec.Deal.Parties {
		if p.PartyRole.Value == models.PartyRoleLender {
			continue
		}
		for ei, emp := range p.Employment {
			base := fmt.Sprintf("deal.parties[%d].employment[%d]", pi, ei)
			if strings.TrimSpace(emp.EmployerName) == "" {
				out = append(out, issue(models.SeverityQuality, base+".employer_name", "employer name is blank"))
			}
			if emp.StartDate != "" && emp.EndDate != "" && emp.StartDate > emp.EndDate {
				out = append(out, issue(models.SeverityLogic, base, fmt.Sprintf("start_date %q is after end_date %q", emp.StartDate, emp.EndDate)))
			}
		}
	}

	return out
}

func checkIncomeAmounts(rec *models.CanonicalRecord) []models.ValidationIssue {
	var out []models.ValidationIssue

	for pi, p := range rec.Deal.Parties {
		if p.PartyRole.Value == models.PartyRoleLender {
			continue
		}
		for ei, emp := range p.Employment {
			if emp.MonthlyIncome == nil {
				continue
			}
			base := fmt.Sprintf("deal.parties[%d].employment[%d].monthly_income", pi, ei)
			for field, amount := range map[string]*float64{
				"base": emp.MonthlyIncome.Base, "overtime": emp.MonthlyIncome.Overtime,
				"bonus": emp.MonthlyIncome.Bonus, "commission": emp.MonthlyIncome.Commission,
				"total": emp.MonthlyIncome.Total,
			} {
				if amount != nil && *amount < 0 {
					out = append(out, issue(models.SeverityLogic, base+"."+field, fmt.Sprintf("%s income %.2f is negative", field, *amount)))
				}
			}
		}
	}

	return out
}

func checkLoanAmount(rec *models.CanonicalRecord) []models.ValidationIssue {
	var out []models.ValidationIssue

	amount := rec.Deal.DisclosuresAndClosing.PromissoryNote.PrincipalAmount
	if amount != nil && *amount <= 0 {
		out = append(out, issue(models.SeverityLogic, "deal.disclosures_and_closing.promissory_note.principal_amount", fmt.Sprintf("loan amount %.2f must be greater than zero", *amount)))
	}

	return out
}

func checkSubjectProperty(rec *models.CanonicalRecord) []models.ValidationIssue {
	var out []models.ValidationIssue

	price := rec.Deal.Collateral.SubjectProperty.SalesPrice
	if price != nil && *price <= 0 {
		out = append(out, issue(models.SeverityLogic, "deal.collateral.subject_property.sales_price", fmt.Sprintf("sales_price %.2f must be greater than zero when present", *price)))
	}

	return out
}
