package resolver

import (
	"github.com/drugsafe/drugscan-api/scan/entities"
)

// Merge reconciles a parsed candidate, an optional local match and an
// optional fallback result into the canonical record. Pure and
// deterministic, no I/O.
//
// Precedence: local authoritative data always wins when present. Fallback
// uses and reported reactions are additive information for the no-local-
// match case and never populate a record that has a local match.
func Merge(candidate entities.Candidate, local *entities.DrugRecord, fb *entities.FallbackResult) entities.MergedRecord {
	merged := entities.MergedRecord{
		Name:         candidate.Name,
		Manufacturer: "Unknown",
		Batch:        candidate.Batch,
		Expiry:       candidate.Expiry,
		UsesLocal:    []string{},
		UsesOfficial: []string{},
		AdrsLocal:    []string{},
		AdrsReported: []string{},
	}

	if local != nil {
		merged.LocalMatch = true
		if local.Name != "" {
			merged.Name = local.Name
		}
		if local.Manufacturer != "" {
			merged.Manufacturer = local.Manufacturer
		}
		if merged.Batch == "" {
			merged.Batch = local.Batch
		}
		if merged.Expiry == "" {
			merged.Expiry = local.Expiry
		}
		merged.UsesLocal = copyOrEmpty(local.Uses)
		merged.AdrsLocal = copyOrEmpty(local.Adrs)
		merged.MaxDoseMg = local.MaxDoseMg
	}

	if fb != nil && local == nil {
		merged.UsesOfficial = copyOrEmpty(fb.UsesOfficial)
		merged.AdrsReported = copyOrEmpty(fb.AdrsReported)
	}

	switch {
	case local != nil && local.Dosage != "":
		merged.DosageOfficial = local.Dosage
	case local == nil && fb != nil && fb.DosageOfficial != "":
		merged.DosageOfficial = fb.DosageOfficial
	}

	return merged
}

func copyOrEmpty(entries []string) []string {
	if len(entries) == 0 {
		return []string{}
	}
	out := make([]string, len(entries))
	copy(out, entries)
	return out
}
