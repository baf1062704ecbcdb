package scan

import (
	"testing"
)

func TestParsePayloadStructuredNameWins(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		expName string
		expLot  string
		expExp  string
	}{
		{
			name:    "drugName key",
			raw:     `{"drugName":"Panadol","batch":"B123","expiry":"2026-06"}`,
			expName: "Panadol",
			expLot:  "B123",
			expExp:  "2026-06",
		},
		{
			name:    "name key",
			raw:     `{"name":"Amoxil"}`,
			expName: "Amoxil",
		},
		{
			name:    "productName key",
			raw:     `{"productName":"Brufen","lot":"L9"}`,
			expName: "Brufen",
			expLot:  "L9",
		},
		{
			name:    "drugName preferred over name",
			raw:     `{"drugName":"Panadol","name":"Other"}`,
			expName: "Panadol",
		},
		{
			name:    "batch preferred over lot",
			raw:     `{"name":"Panadol","batch":"B1","lot":"L1"}`,
			expName: "Panadol",
			expLot:  "B1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := ParsePayload(tt.raw)
			if candidate.Name != tt.expName {
				t.Errorf("Expected name %q, got %q", tt.expName, candidate.Name)
			}
			if candidate.Batch != tt.expLot {
				t.Errorf("Expected batch %q, got %q", tt.expLot, candidate.Batch)
			}
			if candidate.Expiry != tt.expExp {
				t.Errorf("Expected expiry %q, got %q", tt.expExp, candidate.Expiry)
			}
		})
	}
}

func TestParsePayloadStructuredIgnoresSegmentExtraction(t *testing.T) {
	// A structured payload with a name never falls through to GS1 extraction
	candidate := ParsePayload(`{"name":"Panadol (17)260630"}`)
	if candidate.Name != "Panadol (17)260630" {
		t.Errorf("Expected structured name verbatim, got %q", candidate.Name)
	}
	if candidate.Expiry != "" {
		t.Errorf("Expected no expiry extraction on structured path, got %q", candidate.Expiry)
	}
}

func TestParsePayloadNonStructuredKeepsRawName(t *testing.T) {
	inputs := []string{
		"Paracetamol 500mg tab",
		"(10)ABC123",
		"not json at all",
		`{"batch":"B1"}`,       // structured but no name field
		`{"name":""}`,          // structured but empty name
		`{"name": broken json`, // malformed, silently treated as raw text
		"   ",
	}

	for _, raw := range inputs {
		if candidate := ParsePayload(raw); candidate.Name != raw {
			t.Errorf("ParsePayload(%q).Name = %q, want the raw input", raw, candidate.Name)
		}
	}
}

func TestParsePayloadGS1Extraction(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expBatch  string
		expExpiry string
	}{
		{
			name:      "parenthesised AIs",
			raw:       "(01)03401234567890(17)260630(10)ABC123",
			expBatch:  "ABC123",
			expExpiry: "260630",
		},
		{
			name:     "batch only",
			raw:      "(10)XK42-7",
			expBatch: "XK42-7",
		},
		{
			name:      "expiry only",
			raw:       "(17)251231",
			expExpiry: "251231",
		},
		{
			name:      "group separator form",
			raw:       "0103401234567890\x1d17260630\x1d10B99",
			expBatch:  "B99",
			expExpiry: "260630",
		},
		{
			name: "plain text without markers",
			raw:  "Paracetamol 500mg tab",
		},
		{
			name: "expiry marker with short digits does not match",
			raw:  "(17)2606",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := ParsePayload(tt.raw)
			if candidate.Name != tt.raw {
				t.Errorf("Expected name to stay the raw input, got %q", candidate.Name)
			}
			if candidate.Batch != tt.expBatch {
				t.Errorf("Expected batch %q, got %q", tt.expBatch, candidate.Batch)
			}
			if candidate.Expiry != tt.expExpiry {
				t.Errorf("Expected expiry %q, got %q", tt.expExpiry, candidate.Expiry)
			}
		})
	}
}

func TestParsePayloadEmptyInput(t *testing.T) {
	candidate := ParsePayload("")
	if candidate.Name != "" || candidate.Batch != "" || candidate.Expiry != "" {
		t.Errorf("Expected zero candidate for empty input, got %+v", candidate)
	}
}
