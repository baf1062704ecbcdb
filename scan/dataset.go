package scan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"github.com/drugsafe/drugscan-api/interfaces"
	"github.com/drugsafe/drugscan-api/logging"
	"github.com/drugsafe/drugscan-api/validation"
	"golang.org/x/text/encoding/charmap"

	"github.com/drugsafe/drugscan-api/scan/entities"
)

// Compile-time check to ensure DatasetParser implements the interface
var _ interfaces.DatasetParser = (*DatasetParser)(nil)

// DatasetParser loads the authoritative drug dataset, either from a remote
// URL or a local file. The URL takes precedence when both are configured.
type DatasetParser struct {
	url    string
	path   string
	client *http.Client
}

// NewDatasetParser creates a dataset parser for the given source
func NewDatasetParser(url, path string) *DatasetParser {
	return &DatasetParser{
		url:  url,
		path: path,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// ParseDataset reads, decodes and validates the dataset document. Invalid
// records are skipped with a warning; a read or decode failure is returned
// to the caller, which keeps serving the previous snapshot (or an empty
// index in fallback-only mode).
func (p *DatasetParser) ParseDataset() ([]entities.DrugRecord, error) {
	raw, err := p.readSource()
	if err != nil {
		return nil, err
	}

	// Some dataset exports are ISO-8859-1 rather than UTF-8, so sniff first
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode dataset as ISO-8859-1: %w", err)
		}
		raw = decoded
	}

	var records []entities.DrugRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode dataset document: %w", err)
	}

	validator := validation.NewDataValidator()
	valid := make([]entities.DrugRecord, 0, len(records))
	for i := range records {
		if err := validator.ValidateDrugRecord(&records[i]); err != nil {
			logging.Warn("Skipping invalid drug record", "error", err, "position", i)
			continue
		}
		valid = append(valid, records[i])
	}

	logging.Info("Dataset parsed", "records", len(valid), "skipped", len(records)-len(valid))
	return valid, nil
}

func (p *DatasetParser) readSource() ([]byte, error) {
	if p.url != "" {
		return p.download()
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", p.path, err)
	}
	return data, nil
}

func (p *DatasetParser) download() ([]byte, error) {
	response, err := p.client.Get(p.url)
	if err != nil {
		return nil, fmt.Errorf("failed to download dataset from %s: %w", p.url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset download returned status %d", response.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, response.Body); err != nil {
		return nil, fmt.Errorf("failed to read dataset response: %w", err)
	}

	return buf.Bytes(), nil
}
