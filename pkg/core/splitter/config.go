package splitter

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v2"

	"loanforge/pkg/models"
)

// rawSignature mirrors signatures.yaml's on-disk shape; regex patterns
// are plain strings there and compiled during LoadSignatures.
type rawSignature struct {
	DocType          string   `yaml:"doc_type"`
	RequiredKeywords []string `yaml:"required_keywords"`
	Keywords         []string `yaml:"keywords"`
	RegexPatterns    []string `yaml:"regex_patterns"`
	MinimumScore     float64  `yaml:"minimum_score"`
}

type signaturesFile struct {
	Signatures []rawSignature `yaml:"signatures"`
}

// LoadSignatures reads signatures.yaml at path and compiles it into the
// Signature table the Splitter scores pages against.
func LoadSignatures(path string) ([]Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("splitter: read %s: %w", path, err)
	}

	var parsed signaturesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("splitter: parse %s: %w", path, err)
	}

	signatures := make([]Signature, 0, len(parsed.Signatures))
	for _, raw := range parsed.Signatures {
		sig := Signature{
			DocType:          models.DocumentType(raw.DocType),
			RequiredKeywords: raw.RequiredKeywords,
			Keywords:         raw.Keywords,
			MinimumScore:     raw.MinimumScore,
		}
		for _, pattern := range raw.RegexPatterns {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("splitter: compile regex %q for %s: %w", pattern, raw.DocType, err)
			}
			sig.RegexPatterns = append(sig.RegexPatterns, re)
		}
		signatures = append(signatures, sig)
	}
	return signatures, nil
}
