package resolver

import (
	"github.com/drugsafe/drugscan-api/index"
)

// EvaluateDose flags a submitted dose against the configured maximum of the
// named drug. The lookup is exact-key only: a safety check must not fuzzy-
// match a different drug. Absence of data (no match, no configured maximum,
// non-positive amount) is "unknown", never a violation.
func EvaluateDose(name string, amountMg float64, idx *index.Index) bool {
	if amountMg <= 0 {
		return false
	}

	record := idx.LookupExact(name)
	if record == nil || record.MaxDoseMg <= 0 {
		return false
	}

	return amountMg > record.MaxDoseMg
}
