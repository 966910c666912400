package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// filenameAlias maps a DocumentType to the rule-file name convention
// §6 names (e.g. "W-2Form.yaml", "1099 misc.yaml").
var filenameAlias = map[string]string{
	"URLA":                "URLA.yaml",
	"W-2":                 "W-2Form.yaml",
	"Tax Return 1040":     "TaxReturn.yaml",
	"Appraisal 1004":      "Appraisal.yaml",
	"Loan Estimate":       "LoanEstimate.yaml",
	"Closing Disclosure":  "ClosingDisclosure.yaml",
	"1099-MISC":           "1099 misc.yaml",
}

// Loader reads per-DocumentType rule files from a configured directory,
// the way §9's "global state -> constructor-injected configuration"
// Design Note requires.
type Loader struct {
	RuleDir string
}

func NewLoader(ruleDir string) *Loader {
	return &Loader{RuleDir: ruleDir}
}

// Load reads the rule file for docType, resolving its on-disk filename
// through filenameAlias (falling back to "<docType>.yaml" when no alias
// is registered).
func (l *Loader) Load(docType string) (RuleFile, error) {
	filename, ok := filenameAlias[docType]
	if !ok {
		filename = strings.ReplaceAll(docType, " ", "") + ".yaml"
	}
	path := filepath.Join(l.RuleDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return RuleFile{}, fmt.Errorf("rules: read %s: %w", path, err)
	}

	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return RuleFile{}, fmt.Errorf("rules: parse %s: %w", path, err)
	}
	return file, nil
}
