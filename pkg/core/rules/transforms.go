package rules

import (
	"math"
	"strconv"
	"strings"

	"loanforge/pkg/core/utils"
)

// applyTransform runs t on raw and returns the transformed value. An
// unrecognized transform name is a no-op (returns raw unchanged) rather
// than an error, matching the Rule Engine's "never fatal" dispatch
// philosophy for anything downstream of a successful capture.
func applyTransform(t Transform, raw string) interface{} {
	switch t {
	case TransformAnnualToMonthly:
		v := utils.CleanCurrency(raw)
		if v == nil {
			return nil
		}
		return math.Round((*v/12)*100) / 100
	case TransformToFloat:
		v := utils.CleanCurrency(raw)
		if v == nil {
			return nil
		}
		return *v
	case TransformToInt:
		cleaned := strings.TrimSpace(raw)
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		n, err := strconv.Atoi(cleaned)
		if err != nil {
			return nil
		}
		return n
	case TransformStripOCRNoise:
		return stripOCRNoise(raw)
	default:
		return raw
	}
}

// stripOCRNoise retains alphanumerics, whitespace, and a small
// punctuation set (.,-/#), discarding everything else OCR tends to
// hallucinate around scanned text.
func stripOCRNoise(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '.', r == ',', r == '-', r == '/', r == '#':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// currencyToFloatOrNil is the shared numeric-cleaning entry point table
// rules use for cell values that are not explicitly string columns.
func currencyToFloatOrNil(raw string) interface{} {
	v := utils.CleanCurrency(raw)
	if v == nil {
		return nil
	}
	return *v
}
