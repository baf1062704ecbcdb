// Package resolver implements the resolution pipeline: a raw payload is
// parsed into a candidate, matched against the local index and, on a miss,
// enriched from the external fallback service before the merge produces the
// canonical record.
package resolver

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/drugsafe/drugscan-api/interfaces"
	"github.com/drugsafe/drugscan-api/logging"
	"github.com/drugsafe/drugscan-api/metrics"
	"github.com/drugsafe/drugscan-api/scan"
	"github.com/drugsafe/drugscan-api/scan/entities"
)

// Resolver resolves raw payloads into merged drug records
type Resolver struct {
	store  interfaces.DataStore
	client interfaces.FallbackClient

	// generation supersedes in-flight fallback pairs: a Resolve call that
	// finishes its fallback queries after a newer call started discards
	// its result instead of letting a stale record win.
	generation atomic.Int64
}

// New creates a resolver over the given data store and fallback client
func New(store interfaces.DataStore, client interfaces.FallbackClient) *Resolver {
	return &Resolver{
		store:  store,
		client: client,
	}
}

// Resolve turns a raw scanned or typed payload into a MergedRecord. It
// never fails: the worst outcome is a record carrying only the candidate's
// raw name and no enrichment.
func (r *Resolver) Resolve(ctx context.Context, raw string) entities.MergedRecord {
	generation := r.generation.Add(1)

	candidate := scan.ParsePayload(raw)
	local := r.store.GetIndex().Lookup(candidate.Name)

	var fb *entities.FallbackResult
	if local == nil && candidate.Name != "" {
		fb = r.fetchFallback(ctx, generation, candidate.Name)
	}

	switch {
	case local != nil:
		metrics.ResolutionTotal.WithLabelValues("local").Inc()
	case fb != nil && (len(fb.UsesOfficial) > 0 || len(fb.AdrsReported) > 0 || fb.DosageOfficial != ""):
		metrics.ResolutionTotal.WithLabelValues("fallback").Inc()
	default:
		metrics.ResolutionTotal.WithLabelValues("none").Inc()
	}

	return Merge(candidate, local, fb)
}

// EvaluateDose flags a dose against the current index snapshot
func (r *Resolver) EvaluateDose(name string, amountMg float64) bool {
	return EvaluateDose(name, amountMg, r.store.GetIndex())
}

// fetchFallback runs the usage and event queries concurrently and joins
// both before returning. Each query fails independently: the result carries
// whatever succeeded. Returns nil when a newer resolution superseded this
// one while the queries were in flight.
func (r *Resolver) fetchFallback(ctx context.Context, generation int64, name string) *entities.FallbackResult {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		uses   []string
		dosage string
		adrs   []string
	)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		u, d, err := r.client.FetchLabel(ctx, name)
		if err != nil {
			logging.Warn("Fallback label query failed", "drug", name, "error", err)
			metrics.FallbackRequestTotal.WithLabelValues("label", "error").Inc()
			return
		}
		metrics.FallbackRequestTotal.WithLabelValues("label", "ok").Inc()
		uses, dosage = u, d
	}()

	go func() {
		defer wg.Done()
		a, err := r.client.FetchEvents(ctx, name)
		if err != nil {
			logging.Warn("Fallback event query failed", "drug", name, "error", err)
			metrics.FallbackRequestTotal.WithLabelValues("event", "error").Inc()
			return
		}
		metrics.FallbackRequestTotal.WithLabelValues("event", "ok").Inc()
		adrs = a
	}()

	wg.Wait()

	if r.generation.Load() != generation {
		logging.Debug("Discarding superseded fallback result", "drug", name)
		return nil
	}

	return &entities.FallbackResult{
		UsesOfficial:   uses,
		DosageOfficial: dosage,
		AdrsReported:   adrs,
	}
}
