package relational

import (
	"fmt"

	"loanforge/pkg/models"
)

// diagnoseUnmapped surfaces Party-level facts this transformer carries
// no table mapping for, rather than dropping them silently. Declarations
// is the one Party field left genuinely unmapped: it is a free-form
// bag the Canonical Assembler fills from checkbox-kind rules, and no
// destination table in this schema claims it.
func diagnoseUnmapped(index int, p models.Party) []Warning {
	var out []Warning
	if len(p.Declarations) > 0 {
		out = append(out, Warning{
			Path:    fmt.Sprintf("deal.parties[%d].declarations", index),
			Message: fmt.Sprintf("%d declaration field(s) have no relational table mapping", len(p.Declarations)),
		})
	}
	return out
}
