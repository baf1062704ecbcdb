package fallback

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 5*time.Second), server
}

func TestFetchLabelExtractsUsesAndDosage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/drug/label.json") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if !strings.Contains(r.URL.Query().Get("search"), `"Panadol"`) {
			t.Errorf("Expected exact-phrase name in search, got %s", r.URL.Query().Get("search"))
		}
		fmt.Fprint(w, `{"results":[{
			"indications_and_usage":["Pain relief","Fever reduction"],
			"dosage_and_administration":["Adults: 500mg","Children: see leaflet","Third entry ignored"]
		}]}`)
	})

	client, server := newTestClient(handler)
	defer server.Close()

	uses, dosage, err := client.FetchLabel(context.Background(), "Panadol")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(uses) != 2 || uses[0] != "Pain relief" {
		t.Errorf("Unexpected uses: %v", uses)
	}

	// Dosage caps at two entries joined into one string
	if dosage != "Adults: 500mg Children: see leaflet" {
		t.Errorf("Unexpected dosage: %q", dosage)
	}
}

func TestFetchLabelFallsBackToPurposeAndDescription(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"purpose":["Analgesic"]}]}`)
	})

	client, server := newTestClient(handler)
	defer server.Close()

	uses, _, err := client.FetchLabel(context.Background(), "Panadol")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(uses) != 1 || uses[0] != "Analgesic" {
		t.Errorf("Expected purpose field as uses, got %v", uses)
	}
}

func TestFetchLabelCapsUsesAtSix(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"indications_and_usage":["1","2","3","4","5","6","7","8"]}]}`)
	})

	client, server := newTestClient(handler)
	defer server.Close()

	uses, _, err := client.FetchLabel(context.Background(), "Panadol")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(uses) != 6 {
		t.Errorf("Expected 6 uses, got %d", len(uses))
	}
}

func TestFetchLabelNoResults(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	})

	client, server := newTestClient(handler)
	defer server.Close()

	uses, dosage, err := client.FetchLabel(context.Background(), "Unknown")
	if err != nil {
		t.Fatalf("Expected no error for empty results, got %v", err)
	}

	if len(uses) != 0 || dosage != "" {
		t.Errorf("Expected empty result, got %v / %q", uses, dosage)
	}
}

func TestFetchLabelErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"results": not json`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(tt.handler)
			defer server.Close()

			if _, _, err := client.FetchLabel(context.Background(), "Panadol"); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func eventBody(reactionsPerRecord ...[]string) string {
	var records []string
	for _, reactions := range reactionsPerRecord {
		var items []string
		for _, term := range reactions {
			items = append(items, fmt.Sprintf(`{"reactionmeddrapt":%q}`, term))
		}
		records = append(records, fmt.Sprintf(`{"patient":{"reaction":[%s]}}`, strings.Join(items, ",")))
	}
	return fmt.Sprintf(`{"results":[%s]}`, strings.Join(records, ","))
}

func TestFetchEventsRanksByFrequency(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/drug/event.json") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if limit := r.URL.Query().Get("limit"); limit != "100" {
			t.Errorf("Expected limit=100, got %s", limit)
		}
		fmt.Fprint(w, eventBody(
			[]string{"Nausea", "Headache"},
			[]string{"Nausea", "Rash"},
			[]string{"Nausea", "Headache"},
		))
	})

	client, server := newTestClient(handler)
	defer server.Close()

	adrs, err := client.FetchEvents(context.Background(), "Panadol")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []string{"Nausea", "Headache", "Rash"}
	if len(adrs) != len(expected) {
		t.Fatalf("Expected %d terms, got %v", len(expected), adrs)
	}
	for i, term := range expected {
		if adrs[i] != term {
			t.Errorf("Position %d: expected %s, got %s", i, term, adrs[i])
		}
	}
}

func TestFetchEventsTieBreaksOnFirstSeen(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Zebra and Apple both appear once; Zebra is seen first
		fmt.Fprint(w, eventBody([]string{"Zebra"}, []string{"Apple"}))
	})

	client, server := newTestClient(handler)
	defer server.Close()

	adrs, err := client.FetchEvents(context.Background(), "Panadol")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(adrs) != 2 || adrs[0] != "Zebra" || adrs[1] != "Apple" {
		t.Errorf("Expected first-seen order on ties, got %v", adrs)
	}
}

func TestFetchEventsCapsAtTwelve(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reactions []string
		for i := 0; i < 20; i++ {
			reactions = append(reactions, fmt.Sprintf("Reaction%02d", i))
		}
		fmt.Fprint(w, eventBody(reactions))
	})

	client, server := newTestClient(handler)
	defer server.Close()

	adrs, err := client.FetchEvents(context.Background(), "Panadol")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(adrs) != 12 {
		t.Errorf("Expected 12 terms, got %d", len(adrs))
	}
}

func TestFetchEventsSkipsBlankTerms(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, eventBody([]string{"", "  ", "Nausea"}))
	})

	client, server := newTestClient(handler)
	defer server.Close()

	adrs, err := client.FetchEvents(context.Background(), "Panadol")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(adrs) != 1 || adrs[0] != "Nausea" {
		t.Errorf("Expected blank terms skipped, got %v", adrs)
	}
}

func TestFetchEventsError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	client, server := newTestClient(handler)
	defer server.Close()

	if _, err := client.FetchEvents(context.Background(), "Panadol"); err == nil {
		t.Error("Expected an error for non-2xx status")
	}
}
