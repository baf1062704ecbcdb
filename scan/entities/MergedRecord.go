package entities

// FallbackResult carries the external lookup data fetched when no local
// match exists. It is ephemeral and discarded after the merge.
type FallbackResult struct {
	UsesOfficial   []string `json:"usesOfficial"`
	DosageOfficial string   `json:"dosageOfficial,omitempty"`
	AdrsReported   []string `json:"adrsReported"`
}

// MergedRecord is the canonical output of a resolution: candidate, local
// match and fallback data reconciled with fixed field precedence.
type MergedRecord struct {
	Name           string   `json:"name"`
	Manufacturer   string   `json:"manufacturer"`
	Batch          string   `json:"batch,omitempty"`
	Expiry         string   `json:"expiry,omitempty"`
	UsesLocal      []string `json:"usesLocal"`
	UsesOfficial   []string `json:"usesOfficial"`
	AdrsLocal      []string `json:"adrsLocal"`
	AdrsReported   []string `json:"adrsReported"`
	DosageOfficial string   `json:"dosageOfficial,omitempty"`
	MaxDoseMg      float64  `json:"maxDoseMg,omitempty"`
	LocalMatch     bool     `json:"localMatch"`
}
