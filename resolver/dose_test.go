package resolver

import (
	"testing"

	"github.com/drugsafe/drugscan-api/index"
	"github.com/drugsafe/drugscan-api/scan/entities"
)

func doseIndex() *index.Index {
	return index.Build([]entities.DrugRecord{
		{Name: "Panadol", MaxDoseMg: 4000, Synonyms: []string{"paracetamol"}},
		{Name: "Mystery Tonic"}, // no configured maximum
	})
}

func TestEvaluateDose(t *testing.T) {
	idx := doseIndex()

	tests := []struct {
		name     string
		drug     string
		amountMg float64
		expected bool
	}{
		{"above maximum", "Panadol", 5000, true},
		{"below maximum", "Panadol", 3000, false},
		{"exactly at maximum", "Panadol", 4000, false},
		{"case insensitive", "PANADOL", 5000, true},
		{"synonym exact key", "paracetamol", 5000, true},
		{"zero amount", "Panadol", 0, false},
		{"negative amount", "Panadol", -10, false},
		{"no configured maximum", "Mystery Tonic", 99999, false},
		{"unknown drug", "Nonexistent", 99999, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateDose(tt.drug, tt.amountMg, idx); got != tt.expected {
				t.Errorf("EvaluateDose(%q, %f) = %v, want %v", tt.drug, tt.amountMg, got, tt.expected)
			}
		})
	}
}

func TestEvaluateDoseNeverFuzzyMatches(t *testing.T) {
	idx := doseIndex()

	// Substring lookups would resolve this, the safety check must not
	if EvaluateDose("paracetamol 500mg tab", 99999, idx) {
		t.Error("Dose check must not substring-match a different drug")
	}
}
