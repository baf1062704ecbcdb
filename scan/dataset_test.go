package scan

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeDataset(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drugs.json")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("Failed to write dataset fixture: %v", err)
	}
	return path
}

func TestParseDatasetFromFile(t *testing.T) {
	path := writeDataset(t, []byte(`[
		{"name":"Panadol","manufacturer":"GSK","maxDoseMg":4000,"synonyms":["paracetamol"]},
		{"name":"Brufen","uses":["Pain relief"]}
	]`))

	parser := NewDatasetParser("", path)
	records, err := parser.ParseDataset()
	if err != nil {
		t.Fatalf("ParseDataset failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Name != "Panadol" || records[0].MaxDoseMg != 4000 {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
}

func TestParseDatasetSkipsInvalidRecords(t *testing.T) {
	path := writeDataset(t, []byte(`[
		{"name":"Panadol"},
		{"name":"   "},
		{"name":"Brufen","maxDoseMg":-5},
		{"name":"Doliprane"}
	]`))

	parser := NewDatasetParser("", path)
	records, err := parser.ParseDataset()
	if err != nil {
		t.Fatalf("ParseDataset failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 valid records, got %d", len(records))
	}
	if records[0].Name != "Panadol" || records[1].Name != "Doliprane" {
		t.Errorf("Unexpected surviving records: %v", records)
	}
}

func TestParseDatasetDecodesLatin1(t *testing.T) {
	// "comprimé" with é as the single ISO-8859-1 byte 0xE9
	content := append([]byte(`[{"name":"Doliprane comprim`), 0xE9)
	content = append(content, []byte(`"}]`)...)
	path := writeDataset(t, content)

	parser := NewDatasetParser("", path)
	records, err := parser.ParseDataset()
	if err != nil {
		t.Fatalf("ParseDataset failed: %v", err)
	}

	if len(records) != 1 || records[0].Name != "Doliprane comprimé" {
		t.Errorf("Expected the decoded name, got %v", records)
	}
}

func TestParseDatasetFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Panadol"}]`))
	}))
	defer server.Close()

	// The URL takes precedence over any configured path
	parser := NewDatasetParser(server.URL, "does-not-exist.json")
	records, err := parser.ParseDataset()
	if err != nil {
		t.Fatalf("ParseDataset failed: %v", err)
	}

	if len(records) != 1 || records[0].Name != "Panadol" {
		t.Errorf("Unexpected records: %v", records)
	}
}

func TestParseDatasetErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		parser := NewDatasetParser("", filepath.Join(t.TempDir(), "missing.json"))
		if _, err := parser.ParseDataset(); err == nil {
			t.Error("Expected an error for a missing file")
		}
	})

	t.Run("malformed document", func(t *testing.T) {
		path := writeDataset(t, []byte(`{"not":"a list"`))
		parser := NewDatasetParser("", path)
		if _, err := parser.ParseDataset(); err == nil {
			t.Error("Expected an error for a malformed document")
		}
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "oops", http.StatusInternalServerError)
		}))
		defer server.Close()

		parser := NewDatasetParser(server.URL, "")
		if _, err := parser.ParseDataset(); err == nil {
			t.Error("Expected an error for a failing download")
		}
	})
}
