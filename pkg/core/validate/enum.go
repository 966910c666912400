package validate

import "fmt"

// ValidateEnum checks a value against a closed set of options, the way
// the original extractor's enum_validator.py enforced MISMO's
// {value, options} enum structure. No auto-correction, no closest-match
// guessing: an out-of-set value is always reported, never silently
// coerced into the nearest option.
func ValidateEnum(fieldPath, value string, options []string, allowNull bool) *FieldIssue {
	if value == "" && allowNull {
		return nil
	}
	for _, opt := range options {
		if value == opt {
			return nil
		}
	}
	return &FieldIssue{
		Path:    fieldPath,
		Message: fmt.Sprintf("value %q is not in allowed options %v", value, options),
	}
}

// FieldIssue is a single enum-membership failure, kept distinct from
// models.ValidationIssue since enum validation carries no severity of
// its own; callers fold it into the Validator's LOGIC bucket.
type FieldIssue struct {
	Path    string
	Message string
}
