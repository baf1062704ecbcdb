package entities

// PayloadOrigin tags where a raw payload came from.
type PayloadOrigin string

const (
	OriginCamera  PayloadOrigin = "camera"
	OriginGallery PayloadOrigin = "gallery"
	OriginManual  PayloadOrigin = "manual"
)

// Candidate is the structured guess extracted from a raw scanned or typed
// payload. It is produced once per resolution attempt and never mutated.
type Candidate struct {
	Name   string `json:"name"`
	Batch  string `json:"batch,omitempty"`
	Expiry string `json:"expiry,omitempty"`
}
