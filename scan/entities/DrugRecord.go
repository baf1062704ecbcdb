package entities

// DrugRecord is one entry of the authoritative local dataset.
// Records are loaded once per refresh and are read-only afterwards.
type DrugRecord struct {
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Batch        string   `json:"batch,omitempty"`
	Expiry       string   `json:"expiry,omitempty"`
	Uses         []string `json:"uses"`
	Adrs         []string `json:"adrs"`
	Dosage       string   `json:"dosage,omitempty"`
	MaxDoseMg    float64  `json:"maxDoseMg,omitempty"` // 0 means no configured maximum
	Synonyms     []string `json:"synonyms,omitempty"`
}
