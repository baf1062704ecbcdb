// Package reports holds the adverse event report entity and its persisted
// append-only log. Reports are immutable once stored; the log supports only
// append, full reads in append order, and bulk clear.
package reports

// Report is one submitted adverse event report. HighDose is computed at
// submission time against the dataset snapshot current at that moment and
// is stored with the report rather than re-derived on read.
type Report struct {
	ID          string  `json:"id"`
	Drug        string  `json:"drug"`
	Batch       string  `json:"batch,omitempty"`
	PatientName string  `json:"patientName"`
	PatientAge  int     `json:"patientAge,omitempty"`
	AmountMg    float64 `json:"amountMg"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
	HighDose    bool    `json:"highDose"`
}
