package ingest

import (
	"sort"

	"github.com/panganid/pangan-ingest/internal/domain"
)

// Batch partitions records by commodity (ascending slug), then splits each
// commodity's records into chunks of at most size. Order inside a chunk
// follows the input order, so batching is deterministic for a given input.
func Batch(records []domain.PriceObservation, size int) [][]domain.PriceObservation {
	if size <= 0 {
		size = 500
	}

	bySlug := make(map[string][]domain.PriceObservation)
	slugs := make([]string, 0)
	for _, rec := range records {
		if _, seen := bySlug[rec.CommoditySlug]; !seen {
			slugs = append(slugs, rec.CommoditySlug)
		}
		bySlug[rec.CommoditySlug] = append(bySlug[rec.CommoditySlug], rec)
	}
	sort.Strings(slugs)

	var batches [][]domain.PriceObservation
	for _, slug := range slugs {
		group := bySlug[slug]
		for start := 0; start < len(group); start += size {
			end := start + size
			if end > len(group) {
				end = len(group)
			}
			batches = append(batches, group[start:end])
		}
	}

	return batches
}

// Deduplicate keeps the last record per natural key, preserving first-seen
// order of the keys.
func Deduplicate(records []domain.PriceObservation) []domain.PriceObservation {
	index := make(map[domain.ObservationKey]int, len(records))
	out := make([]domain.PriceObservation, 0, len(records))

	for _, rec := range records {
		if at, seen := index[rec.Key()]; seen {
			out[at] = rec
			continue
		}
		index[rec.Key()] = len(out)
		out = append(out, rec)
	}

	return out
}
