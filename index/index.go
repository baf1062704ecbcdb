// Package index builds the in-memory lookup over the authoritative drug
// dataset. The index is built once per dataset refresh and is read-only
// afterwards, so lookups need no locking.
package index

import (
	"strings"

	"github.com/drugsafe/drugscan-api/scan/entities"
)

// Index maps lowercased drug names and synonyms to dataset records.
//
// Iteration order for substring matching is the insertion order of the
// source dataset. That order is an implementation choice made so that
// substring ties resolve deterministically; callers must not rely on which
// record wins a tie, only on the result being stable for a given dataset.
type Index struct {
	keys    []string
	byKey   map[string]int
	records []entities.DrugRecord
}

// Build constructs an Index from dataset records. Every record is keyed by
// its lowercased name and by each lowercased synonym. Later records
// overwrite earlier colliding keys (last-write-wins in dataset order).
func Build(records []entities.DrugRecord) *Index {
	idx := &Index{
		byKey:   make(map[string]int, len(records)*2),
		records: records,
	}

	for i := range records {
		idx.insert(normalizeKey(records[i].Name), i)
		for _, syn := range records[i].Synonyms {
			idx.insert(normalizeKey(syn), i)
		}
	}

	return idx
}

func (idx *Index) insert(key string, record int) {
	if key == "" {
		return
	}
	if _, exists := idx.byKey[key]; !exists {
		idx.keys = append(idx.keys, key)
	}
	idx.byKey[key] = record
}

// Len returns the number of keys in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.keys)
}

// LookupExact returns the record whose name or synonym equals the input
// (case-insensitive), or nil. The dose safety check uses only this phase:
// a fuzzy match must never silently select a different drug.
func (idx *Index) LookupExact(name string) *entities.DrugRecord {
	if idx == nil {
		return nil
	}

	if i, ok := idx.byKey[normalizeKey(name)]; ok {
		return &idx.records[i]
	}
	return nil
}

// Lookup resolves a name against the index in two phases: exact key match
// first, then a substring scan in insertion order. The substring phase
// matches when an index key occurs inside the input (a scanned label
// usually carries more than the bare name) or when the input occurs inside
// one of a record's synonyms. Returns nil when neither phase matches,
// which is the signal that fallback resolution is warranted.
func (idx *Index) Lookup(name string) *entities.DrugRecord {
	if idx == nil {
		return nil
	}

	needle := normalizeKey(name)
	if needle == "" {
		return nil
	}

	if i, ok := idx.byKey[needle]; ok {
		return &idx.records[i]
	}

	for _, key := range idx.keys {
		i := idx.byKey[key]
		if strings.Contains(needle, key) {
			return &idx.records[i]
		}
		for _, syn := range idx.records[i].Synonyms {
			if strings.Contains(normalizeKey(syn), needle) {
				return &idx.records[i]
			}
		}
	}

	return nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
