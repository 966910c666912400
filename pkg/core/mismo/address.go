package mismo

import (
	"regexp"
	"strings"
)

var cityStateZip = regexp.MustCompile(`^\s*(.+?),\s*([A-Z]{2})\s+(\d{5}(?:-\d{4})?)\s*$`)

// parsedAddress is the US city/state/zip decomposition of a free-text
// city_state_zip value.
type parsedAddress struct {
	City  string
	State string
	Zip   string
}

// parseCityStateZip extracts "City, ST ZZZZZ(-ZZZZ)?" into its parts.
// An input that doesn't match the pattern returns a zero value; the
// caller simply omits whatever it couldn't parse.
func parseCityStateZip(raw string) parsedAddress {
	m := cityStateZip.FindStringSubmatch(raw)
	if m == nil {
		return parsedAddress{}
	}
	return parsedAddress{City: m[1], State: m[2], Zip: m[3]}
}

// splitName breaks a full name into First/Middle/Last per the spec: a
// single-token name emits FirstName only; two tokens are First/Last;
// three or more tokens take the first as First, the last as Last, and
// everything between as Middle.
type splitFullName struct {
	First  string
	Middle string
	Last   string
}

func splitName(full string) splitFullName {
	tokens := strings.Fields(full)
	switch len(tokens) {
	case 0:
		return splitFullName{}
	case 1:
		return splitFullName{First: tokens[0]}
	case 2:
		return splitFullName{First: tokens[0], Last: tokens[1]}
	default:
		return splitFullName{First: tokens[0], Middle: strings.Join(tokens[1:len(tokens)-1], " "), Last: tokens[len(tokens)-1]}
	}
}
