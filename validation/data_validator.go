// Package validation provides data validation functionality for the drug scan API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/drugsafe/drugscan-api/interfaces"
	"github.com/drugsafe/drugscan-api/reports"
	"github.com/drugsafe/drugscan-api/scan/entities"
)

// Pre-compiled regex patterns for performance optimization
// Compiled once at package initialization and reused for all validations
var (
	// Input validation: alphanumeric + accents + safe punctuation found on drug labels
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+'%/(),àâäéèêëïîôöùûüÿç]+$`)

	// Dangerous patterns as strings (strings.Contains is much faster than
	// regex for plain substring scans)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
		"eval(", "expression(", "url(", "import ", "@import", "binding(", "behavior(",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
	}
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateDrugRecord checks if a dataset record is valid
func (v *DataValidatorImpl) ValidateDrugRecord(r *entities.DrugRecord) error {
	if r == nil {
		return fmt.Errorf("drug record is nil")
	}

	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("empty drug name")
	}

	if len(r.Name) > 200 {
		return fmt.Errorf("drug name too long: %d characters", len(r.Name))
	}

	if len(r.Manufacturer) > 200 {
		return fmt.Errorf("manufacturer too long for %s: %d characters", r.Name, len(r.Manufacturer))
	}

	if r.MaxDoseMg < 0 {
		return fmt.Errorf("negative max dose for %s: %f", r.Name, r.MaxDoseMg)
	}

	for _, syn := range r.Synonyms {
		if len(syn) > 200 {
			return fmt.Errorf("synonym too long for %s: %d characters", r.Name, len(syn))
		}
	}

	return nil
}

// ValidateInput validates user input strings before they reach the
// resolution pipeline or the report log
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) > 500 {
		return fmt.Errorf("input too long: %d characters (max 500)", len(input))
	}

	lower := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("input contains disallowed sequence")
		}
	}

	return nil
}

// ValidateSearchTerm validates a resolution search term. Scanned payloads
// may carry arbitrary encodings, so only the dangerous-pattern scan and the
// length cap apply; typed search terms additionally must match the input
// character set.
func (v *DataValidatorImpl) ValidateSearchTerm(input string, typed bool) error {
	if err := v.ValidateInput(input); err != nil {
		return err
	}

	if typed && !inputRegex.MatchString(input) {
		return fmt.Errorf("search term contains unsupported characters")
	}

	return nil
}

// ValidateReport checks a report submission before any persistence write.
// A failure here means nothing is stored.
func (v *DataValidatorImpl) ValidateReport(r *reports.Report) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}

	if strings.TrimSpace(r.Drug) == "" {
		return fmt.Errorf("missing drug name")
	}

	if strings.TrimSpace(r.PatientName) == "" {
		return fmt.Errorf("missing patient name")
	}

	if r.PatientAge < 0 || r.PatientAge > 150 {
		return fmt.Errorf("invalid patient age: %d", r.PatientAge)
	}

	if r.AmountMg <= 0 {
		return fmt.Errorf("amount must be a positive number of milligrams, got %f", r.AmountMg)
	}

	if len(r.Description) > 2000 {
		return fmt.Errorf("description too long: %d characters (max 2000)", len(r.Description))
	}

	if err := v.ValidateInput(r.Drug); err != nil {
		return fmt.Errorf("invalid drug name: %w", err)
	}

	return nil
}

// ReportDataQuality generates a data quality report over a freshly loaded
// dataset. Findings are logged by the caller, they never fail the load.
func (v *DataValidatorImpl) ReportDataQuality(records []entities.DrugRecord) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{}

	seen := make(map[string]string) // key -> record name that claimed it
	names := make(map[string]bool)

	for _, r := range records {
		names[strings.ToLower(r.Name)] = true
	}

	for _, r := range records {
		nameKey := strings.ToLower(r.Name)
		if owner, dup := seen[nameKey]; dup && owner != r.Name {
			report.DuplicateKeys = append(report.DuplicateKeys, nameKey)
		}
		seen[nameKey] = r.Name

		for _, syn := range r.Synonyms {
			synKey := strings.ToLower(syn)
			if names[synKey] {
				report.SynonymsShadowingNames++
			}
			if owner, dup := seen[synKey]; dup && owner != r.Name {
				report.DuplicateKeys = append(report.DuplicateKeys, synKey)
			}
			seen[synKey] = r.Name
		}

		if len(r.Uses) == 0 {
			report.RecordsWithoutUses++
		}
		if len(r.Adrs) == 0 {
			report.RecordsWithoutAdrs++
		}
		if r.MaxDoseMg <= 0 {
			report.RecordsWithoutMaxDose++
		}
	}

	return report
}
