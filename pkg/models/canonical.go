package models

// EnumValue wraps a closed-enumeration field the way the MISMO containment
// model does: a bare string typed by context (party role, asset type,
// employment status, ...).
type EnumValue struct {
	Value string `json:"value"`
}

// Address is a borrower or property postal address. Either the raw
// Street/CityStateZip pair or the parsed components may be populated;
// callers that need both compose them.
type Address struct {
	Street       string `json:"street,omitempty"`
	CityStateZip string `json:"city_state_zip,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Zip          string `json:"zip,omitempty"`
	AddressType  string `json:"address_type,omitempty"` // "Current" | "Prior"
}

// MonthlyIncome breaks an employment's income into its source components.
// Total is the only sub-value excluded from the per-income-type relational
// fan-out in the Relational Transformer.
type MonthlyIncome struct {
	Base      *float64 `json:"base,omitempty"`
	Overtime  *float64 `json:"overtime,omitempty"`
	Bonus     *float64 `json:"bonus,omitempty"`
	Commission *float64 `json:"commission,omitempty"`
	Total     *float64 `json:"total,omitempty"`
}

// Employment is one position held by a Party, current or prior.
type Employment struct {
	EmployerName      string         `json:"employer_name"`
	PositionTitle     string         `json:"position_title,omitempty"`
	EmployerEIN       string         `json:"employer_ein,omitempty"`
	BusinessPhone     string         `json:"business_phone,omitempty"`
	EmploymentStatus  EnumValue      `json:"employment_status"`
	MonthlyIncome     *MonthlyIncome `json:"monthly_income,omitempty"`
	StartDate         string         `json:"start_date,omitempty"`
	EndDate           string         `json:"end_date,omitempty"`
	IsSelfEmployed    bool           `json:"is_self_employed,omitempty"`
	BusinessAddress   *Address       `json:"business_address,omitempty"`
}

// Asset is a single financial account or holding belonging to a Party.
// Exactly one of CashOrMarketValueAmount / EndingBalance is expected to
// contribute to downstream totals; the Relational Transformer picks the
// first present, falling back to 0.
type Asset struct {
	InstitutionName        string   `json:"institution_name,omitempty"`
	AccountNumber           string   `json:"account_number,omitempty"`
	AssetType               EnumValue `json:"asset_type"`
	CashOrMarketValueAmount *float64 `json:"cash_or_market_value_amount,omitempty"`
	EndingBalance           *float64 `json:"ending_balance,omitempty"`
	BeginningBalance        *float64 `json:"beginning_balance,omitempty"`
	Transactions            []string `json:"transactions,omitempty"`
	WithdrawalTransactions  []string `json:"withdrawal_transactions,omitempty"`
}

// IVF is an Income Verification Fragment: a single source document's
// authenticated financial snapshot, kept alongside the party so the
// Validator and the lender's manual reviewers can see provenance.
type IVF struct {
	SourceDocument string                 `json:"source_document"`
	Confidence     float64                `json:"confidence,omitempty"`
	Fields         map[string]interface{} `json:"fields,omitempty"`
}

// Individual holds the personal-identity fields of a Party.
type Individual struct {
	FullName             string `json:"full_name,omitempty"`
	FirstName            string `json:"first_name,omitempty"`
	LastName             string `json:"last_name,omitempty"`
	SSN                  string `json:"ssn,omitempty"`
	DOB                  string `json:"dob,omitempty"`
	MaritalStatus        string `json:"marital_status,omitempty"`
	CitizenshipResidency string `json:"citizenship_residency,omitempty"`
	Ethnicity            string `json:"ethnicity,omitempty"`
	Race                 string `json:"race,omitempty"`
	Sex                  string `json:"sex,omitempty"`
	Phone                string `json:"phone,omitempty"`
}

// Party is a borrower, co-borrower, or lender participant in the deal.
// Invariants: at most one primary Borrower; Lender parties carry
// CompanyName and optionally one Individual (the loan officer); every
// non-Lender party is addressable by its stable index in deal.parties.
type Party struct {
	Individual              Individual    `json:"individual"`
	CompanyName             string        `json:"company_name,omitempty"`
	NMLSID                  string        `json:"nmls_id,omitempty"`
	Addresses               []Address     `json:"addresses,omitempty"`
	Employment              []Employment  `json:"employment,omitempty"`
	SelfEmployment          []Employment  `json:"self_employment,omitempty"`
	Assets                  []Asset       `json:"assets,omitempty"`
	IncomeVerificationFrags []IVF         `json:"income_verification_fragments,omitempty"`
	Declarations            map[string]interface{} `json:"declarations,omitempty"`
	PartyRole               EnumValue     `json:"party_role"`
}

const (
	PartyRoleBorrower   = "Borrower"
	PartyRoleCoBorrower = "CoBorrower"
	PartyRoleLender     = "Lender"
)

// SubjectProperty is the collateral securing the loan.
type SubjectProperty struct {
	Address      Address  `json:"address"`
	PropertyType string   `json:"property_type,omitempty"`
	OccupancyType string  `json:"occupancy_type,omitempty"`
	SalesPrice   *float64 `json:"sales_price,omitempty"`
	AppraisedValue *float64 `json:"appraised_value,omitempty"`
	YearBuilt    string   `json:"year_built,omitempty"`
}

// Collateral wraps the subject property per MISMO's containment.
type Collateral struct {
	SubjectProperty SubjectProperty `json:"subject_property"`
}

// TransactionInformation carries loan-purpose and occupancy-level facts.
type TransactionInformation struct {
	LoanPurpose  EnumValue `json:"loan_purpose"`
	Amortization string    `json:"amortization_type,omitempty"`
	MortgageType string    `json:"mortgage_type,omitempty"`
}

// PromissoryNote is the note instrument itself.
type PromissoryNote struct {
	PrincipalAmount *float64 `json:"principal_amount,omitempty"`
	InterestRate    *float64 `json:"interest_rate,omitempty"`
	TermMonths      *int     `json:"term_months,omitempty"`
	MaturityDate    string   `json:"maturity_date,omitempty"`
}

// H24Details captures CFPB Loan Estimate layout facts; H25Details the
// Closing Disclosure layout.
type H24Details struct {
	EstimatedClosingCosts *float64 `json:"estimated_closing_costs,omitempty"`
	EstimatedCashToClose  *float64 `json:"estimated_cash_to_close,omitempty"`
}

type H25Details struct {
	FinalClosingCosts *float64 `json:"final_closing_costs,omitempty"`
	FinalCashToClose  *float64 `json:"final_cash_to_close,omitempty"`
}

// DisclosuresAndClosing groups the note, dates, and the disclosure-form
// snapshots the spec requires preserved verbatim.
type DisclosuresAndClosing struct {
	PromissoryNote  PromissoryNote `json:"promissory_note"`
	ApplicationDate string         `json:"application_date,omitempty"`
	ClosingDate     string         `json:"closing_date,omitempty"`
	H24             *H24Details    `json:"h24_details,omitempty"`
	H25             *H25Details    `json:"h25_details,omitempty"`
}

// Identifiers carries the agency case number and other cross-system keys.
type Identifiers struct {
	AgencyCaseNumber string `json:"agency_case_number,omitempty"`
	LenderLoanNumber string `json:"lender_loan_number,omitempty"`
}

// Liability is a debt obligation the borrower discloses outside the loan
// itself (credit card, auto loan, student loan, ...).
type Liability struct {
	CreditorName   string   `json:"creditor_name,omitempty"`
	LiabilityType  EnumValue `json:"liability_type"`
	UnpaidBalance  *float64 `json:"unpaid_balance,omitempty"`
	RawBalanceText string   `json:"raw_balance_text,omitempty"`
	MonthlyPayment *float64 `json:"monthly_payment,omitempty"`
}

// DocumentMetadata tracks the originating source document and the MISMO
// schema version the record targets, as a sibling of the deal tree.
type DocumentMetadata struct {
	SourceDocumentType DocumentType `json:"source_document_type"`
	SchemaVersion      string       `json:"schema_version"`
}

// Deal is the root of the canonical record's required sub-trees.
type Deal struct {
	Parties               []Party                `json:"parties"`
	Collateral             Collateral             `json:"collateral"`
	TransactionInformation TransactionInformation `json:"transaction_information"`
	DisclosuresAndClosing  DisclosuresAndClosing  `json:"disclosures_and_closing"`
	Identifiers            Identifiers            `json:"identifiers"`
	Liabilities            []Liability            `json:"liabilities,omitempty"`
}

// CanonicalRecord is the deep MISMO-aligned tree the pipeline assembles,
// validates, lowers, and emits from.
type CanonicalRecord struct {
	Deal             Deal             `json:"deal"`
	DocumentMetadata DocumentMetadata `json:"document_metadata"`
}

// NewCanonicalRecord builds an empty record stamped with the originating
// document type and schema version.
func NewCanonicalRecord(src DocumentType, schemaVersion string) *CanonicalRecord {
	return &CanonicalRecord{
		Deal: Deal{Parties: []Party{}},
		DocumentMetadata: DocumentMetadata{
			SourceDocumentType: src,
			SchemaVersion:      schemaVersion,
		},
	}
}

// PrimaryBorrowerIndex returns the index of the first Borrower party, or
// -1 if none exists.
func (d *Deal) PrimaryBorrowerIndex() int {
	for i, p := range d.Parties {
		if p.PartyRole.Value == PartyRoleBorrower {
			return i
		}
	}
	return -1
}
