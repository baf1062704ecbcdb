// Package fallback queries the external drug lookup service used when the
// local index has no match. Both queries are single best-effort attempts:
// a network failure, a non-2xx status or a malformed body yields an empty
// result for that query alone and the resolution continues.
package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/drugsafe/drugscan-api/interfaces"
)

// Caps applied to fallback data before it reaches the merge
const (
	maxUses          = 6
	maxDosageEntries = 2
	maxReactions     = 12
	maxEventRecords  = 100
)

// Compile-time check to ensure Client implements the interface
var _ interfaces.FallbackClient = (*Client)(nil)

// Client talks to an openFDA-compatible service exposing drug label and
// adverse event endpoints with a JSON "results" list.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a fallback client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchLabel fetches label-style information for a drug name and extracts
// usage entries (at most 6) and a dosage string (at most 2 entries joined).
func (c *Client) FetchLabel(ctx context.Context, name string) ([]string, string, error) {
	query := fmt.Sprintf(`openfda.brand_name:%q`, name)
	endpoint := fmt.Sprintf("%s/drug/label.json?search=%s&limit=1", c.baseURL, url.QueryEscape(query))

	var response struct {
		Results []struct {
			IndicationsAndUsage     []string `json:"indications_and_usage"`
			Purpose                 []string `json:"purpose"`
			Description             []string `json:"description"`
			DosageAndAdministration []string `json:"dosage_and_administration"`
		} `json:"results"`
	}

	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, "", err
	}

	if len(response.Results) == 0 {
		return nil, "", nil
	}

	result := response.Results[0]

	// First populated field wins: indications, then purpose, then description
	uses := result.IndicationsAndUsage
	if len(uses) == 0 {
		uses = result.Purpose
	}
	if len(uses) == 0 {
		uses = result.Description
	}
	uses = trimEntries(uses, maxUses)

	dosage := strings.Join(trimEntries(result.DosageAndAdministration, maxDosageEntries), " ")

	return uses, dosage, nil
}

// FetchEvents fetches up to 100 adverse event reports for a drug name and
// returns the 12 most frequent reaction terms. Ties resolve to the term
// seen first in the response, so the ranking is stable for a given body.
func (c *Client) FetchEvents(ctx context.Context, name string) ([]string, error) {
	query := fmt.Sprintf(`patient.drug.medicinalproduct:%q`, name)
	endpoint := fmt.Sprintf("%s/drug/event.json?search=%s&limit=%d", c.baseURL, url.QueryEscape(query), maxEventRecords)

	var response struct {
		Results []struct {
			Patient struct {
				Reaction []struct {
					ReactionMedDRAPT string `json:"reactionmeddrapt"`
				} `json:"reaction"`
			} `json:"patient"`
		} `json:"results"`
	}

	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, result := range response.Results {
		for _, reaction := range result.Patient.Reaction {
			term := strings.TrimSpace(reaction.ReactionMedDRAPT)
			if term == "" {
				continue
			}
			if _, seen := counts[term]; !seen {
				firstSeen[term] = order
				order++
			}
			counts[term]++
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}

	sort.SliceStable(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return firstSeen[terms[i]] < firstSeen[terms[j]]
	})

	return trimEntries(terms, maxReactions), nil
}

// getJSON performs one GET and decodes the body. No retries: the resolver
// treats any error here as "no data" for that query.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", response.StatusCode)
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func trimEntries(entries []string, limit int) []string {
	out := make([]string, 0, limit)
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		out = append(out, entry)
		if len(out) == limit {
			break
		}
	}
	return out
}
