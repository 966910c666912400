package merge

import (
	"fmt"

	"loanforge/pkg/models"
)

// identityKeys maps each document family's name/SSN flat-key pair, the
// same convention pkg/core/canonical's strategies read from.
var identityKeys = map[models.DocumentType][2]string{
	models.DocTypeURLA:          {"urla_borrower_name", "urla_borrower_ssn"},
	models.DocTypeW2:            {"w2_employee_name", "w2_employee_ssn"},
	models.DocTypePayStub:       {"paystub_employee_name", "paystub_employee_ssn"},
	models.DocTypeTaxReturn1040: {"tax_filer_name", "tax_filer_ssn"},
	models.DocTypeBankStatement: {"bank_account_holder_name", ""},
}

// evidence is one document's claim about a single party's identity.
type evidence struct {
	label string
	name  string
	ssn   string
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func collectEvidence(inputs []Input) []evidence {
	var out []evidence
	for i, in := range inputs {
		keys, known := identityKeys[in.DocType]
		if !known {
			continue
		}
		nameKey, ssnKey := keys[0], keys[1]
		name := asString(in.Flat[nameKey])
		var ssn string
		if ssnKey != "" {
			ssn = asString(in.Flat[ssnKey])
		}
		if name == "" && ssn == "" {
			continue
		}
		out = append(out, evidence{label: fmt.Sprintf("%s#%d", in.DocType, i), name: name, ssn: ssn})
	}
	return out
}

// matchParties clusters per-document identity evidence into canonical
// parties: SSN exact match (normalized) takes precedence, falling back
// to fuzzy name matching (LCS ratio >= 0.80, upper-cased) for any
// evidence whose SSN matches no existing cluster, including documents
// that carry no SSN (e.g. bank statements). Cluster IDs are assigned
// "party_0", "party_1", ... in the order clusters are first discovered.
func matchParties(inputs []Input) map[string]string {
	ev := collectEvidence(inputs)
	result := map[string]string{}
	if len(ev) == 0 {
		return result
	}

	type cluster struct {
		ssn  string
		name string
	}
	var clusters []cluster

	for _, e := range ev {
		normSSN := normalizeSSN(e.ssn)
		matched := -1

		if normSSN != "" {
			for i, c := range clusters {
				if c.ssn != "" && c.ssn == normSSN {
					matched = i
					break
				}
			}
		}
		if matched == -1 && e.name != "" {
			for i, c := range clusters {
				if c.name != "" && nameSimilarity(c.name, e.name) >= 0.80 {
					matched = i
					break
				}
			}
		}

		if matched == -1 {
			clusters = append(clusters, cluster{ssn: normSSN, name: e.name})
			matched = len(clusters) - 1
		} else {
			if clusters[matched].ssn == "" && normSSN != "" {
				clusters[matched].ssn = normSSN
			}
			if clusters[matched].name == "" && e.name != "" {
				clusters[matched].name = e.name
			}
		}

		result[e.label] = fmt.Sprintf("party_%d", matched)
	}

	return result
}
