// Package scan turns raw scanned or typed payloads into resolution
// candidates and loads the authoritative drug dataset from external sources.
package scan

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/drugsafe/drugscan-api/scan/entities"
)

// Pre-compiled GS1 application identifier patterns. AI 10 introduces a
// batch/lot segment (variable length, terminated by a group separator or
// the next parenthesised AI), AI 17 a six digit YYMMDD expiry. Both the
// human-readable "(10)" form and the raw FNC1-separated form are accepted.
var (
	batchAIPattern  = regexp.MustCompile(`(?:\(10\)|\x1d10|^10)([^\x1d()]{1,20})`)
	expiryAIPattern = regexp.MustCompile(`(?:\(17\)|\x1d17|^17)([0-9]{6})`)
)

// structuredPayload covers the key spellings seen in QR payloads that carry
// a JSON object instead of a bare GS1 string.
type structuredPayload struct {
	DrugName    string `json:"drugName"`
	Name        string `json:"name"`
	ProductName string `json:"productName"`
	Batch       string `json:"batch"`
	Lot         string `json:"lot"`
	Expiry      string `json:"expiry"`
}

func (p structuredPayload) name() string {
	switch {
	case p.DrugName != "":
		return p.DrugName
	case p.Name != "":
		return p.Name
	default:
		return p.ProductName
	}
}

func (p structuredPayload) batch() string {
	if p.Batch != "" {
		return p.Batch
	}
	return p.Lot
}

// ParsePayload extracts a Candidate from a raw payload. It is a total
// function: malformed structured input is treated as a plain text payload,
// not surfaced as an error, and the worst case is the whole input used as
// the name. Empty input yields a zero Candidate.
func ParsePayload(raw string) entities.Candidate {
	if raw == "" {
		return entities.Candidate{}
	}
	trimmed := strings.TrimSpace(raw)

	// Structured path wins outright when it carries a name
	if strings.HasPrefix(trimmed, "{") {
		var payload structuredPayload
		if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
			if name := strings.TrimSpace(payload.name()); name != "" {
				return entities.Candidate{
					Name:   name,
					Batch:  strings.TrimSpace(payload.batch()),
					Expiry: strings.TrimSpace(payload.Expiry),
				}
			}
		}
	}

	// Encoded-segment extraction never supplies a name: the full raw
	// string stays the name so a failed extraction loses nothing.
	candidate := entities.Candidate{Name: raw}

	if m := batchAIPattern.FindStringSubmatch(trimmed); m != nil {
		candidate.Batch = strings.TrimSpace(m[1])
	}
	if m := expiryAIPattern.FindStringSubmatch(trimmed); m != nil {
		candidate.Expiry = m[1]
	}

	return candidate
}
