package utils

import "regexp"

var (
	mmddyyyy = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	isoDate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsWellFormedDate reports whether s matches MM/DD/YYYY or YYYY-MM-DD,
// the two formats the Validator accepts for DOB and application_date.
func IsWellFormedDate(s string) bool {
	return mmddyyyy.MatchString(s) || isoDate.MatchString(s)
}

// ToISODate converts a well-formed MM/DD/YYYY string to YYYY-MM-DD.
// Inputs that are already ISO pass through unchanged; ill-formed inputs
// pass through unchanged too, per the spec's bijection-on-well-formed-
// inputs rule.
func ToISODate(s string) string {
	m := mmddyyyy.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return m[3] + "-" + m[1] + "-" + m[2]
}
