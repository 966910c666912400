package merge

import (
	"testing"

	"loanforge/pkg/models"
)

func TestMerge_EmptyInputs(t *testing.T) {
	r := Merge(nil)
	if len(r.Merged) != 0 {
		t.Fatalf("expected empty merged map, got %v", r.Merged)
	}
	if len(r.PartyMap) != 0 {
		t.Fatalf("expected empty party map, got %v", r.PartyMap)
	}
}

func TestMerge_HigherPriorityWins(t *testing.T) {
	inputs := []Input{
		{DocType: models.DocTypeURLA, Flat: models.FlatExtraction{"urla_borrower_name": "JOHN SMITH", "shared_key": "from_urla"}},
		{DocType: models.DocTypeW2, Flat: models.FlatExtraction{"w2_employee_name": "JOHN SMITH", "shared_key": "from_w2"}},
	}
	r := Merge(inputs)
	if r.Merged["shared_key"] != "from_w2" {
		t.Fatalf("expected W-2 (priority 90) to win over URLA (priority 50), got %v", r.Merged["shared_key"])
	}
	if len(r.Conflicts) != 1 {
		t.Fatalf("expected exactly one logged conflict, got %d", len(r.Conflicts))
	}
}

func TestMerge_TieBreaksBySuppliedOrder(t *testing.T) {
	inputs := []Input{
		{DocType: models.DocTypeBankStatement, Flat: models.FlatExtraction{"shared_key": "first"}},
		{DocType: models.DocTypeBankStatement, Flat: models.FlatExtraction{"shared_key": "second"}},
	}
	r := Merge(inputs)
	if r.Merged["shared_key"] != "second" {
		t.Fatalf("expected later-supplied document to win a same-priority tie, got %v", r.Merged["shared_key"])
	}
}

func TestMerge_NilValuesNeverOverwrite(t *testing.T) {
	inputs := []Input{
		{DocType: models.DocTypeURLA, Flat: models.FlatExtraction{"shared_key": "kept"}},
		{DocType: models.DocTypeW2, Flat: models.FlatExtraction{"shared_key": nil}},
	}
	r := Merge(inputs)
	if r.Merged["shared_key"] != "kept" {
		t.Fatalf("a nil value must not overwrite an existing non-nil value, got %v", r.Merged["shared_key"])
	}
}

func TestMatchParties_SSNExactMatch(t *testing.T) {
	inputs := []Input{
		{DocType: models.DocTypeURLA, Flat: models.FlatExtraction{"urla_borrower_name": "JOHN SMITH", "urla_borrower_ssn": "123-45-6789"}},
		{DocType: models.DocTypeW2, Flat: models.FlatExtraction{"w2_employee_name": "J. SMITH", "w2_employee_ssn": "123456789"}},
	}
	r := Merge(inputs)
	urlaParty := r.PartyMap["URLA#0"]
	w2Party := r.PartyMap["W-2#1"]
	if urlaParty == "" || w2Party == "" {
		t.Fatalf("expected both documents to resolve to a party, got %v", r.PartyMap)
	}
	if urlaParty != w2Party {
		t.Fatalf("expected SSN match (after dash normalization) to cluster both documents into one party, got %s vs %s", urlaParty, w2Party)
	}
}

func TestMatchParties_FuzzyNameFallback(t *testing.T) {
	inputs := []Input{
		{DocType: models.DocTypeURLA, Flat: models.FlatExtraction{"urla_borrower_name": "JOHN A SMITH", "urla_borrower_ssn": "111-11-1111"}},
		{DocType: models.DocTypeBankStatement, Flat: models.FlatExtraction{"bank_account_holder_name": "JOHN A SMITH"}},
	}
	r := Merge(inputs)
	urlaParty := r.PartyMap["URLA#0"]
	bankParty := r.PartyMap["Bank Statement#1"]
	if urlaParty != bankParty {
		t.Fatalf("expected identical names to cluster via fuzzy match when no SSN is present, got %s vs %s", urlaParty, bankParty)
	}
}

func TestMatchParties_DistinctBorrowersStaySeparate(t *testing.T) {
	inputs := []Input{
		{DocType: models.DocTypeURLA, Flat: models.FlatExtraction{"urla_borrower_name": "JOHN SMITH", "urla_borrower_ssn": "111-11-1111"}},
		{DocType: models.DocTypeW2, Flat: models.FlatExtraction{"w2_employee_name": "JANE DOE", "w2_employee_ssn": "222-22-2222"}},
	}
	r := Merge(inputs)
	if r.PartyMap["URLA#0"] == r.PartyMap["W-2#1"] {
		t.Fatalf("expected distinct SSNs and names to remain separate parties")
	}
}

func TestNameSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		min  float64
	}{
		{"JOHN SMITH", "JOHN SMITH", 1.0},
		{"JOHN A SMITH", "JOHN SMITH", 0.80},
	}
	for _, c := range cases {
		got := nameSimilarity(c.a, c.b)
		if got < c.min {
			t.Errorf("nameSimilarity(%q, %q) = %f, want >= %f", c.a, c.b, got, c.min)
		}
	}
	if nameSimilarity("JOHN SMITH", "ROBERT JONES") >= 0.80 {
		t.Errorf("expected dissimilar names to score below threshold")
	}
}
