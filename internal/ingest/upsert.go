package ingest

import (
	"errors"
	"fmt"

	"github.com/lmoral/captaleads/internal/property"
)

// Stats aggregates the outcome of one upload batch.
type Stats struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	Updated    int `json:"updated"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// upsert runs the dedup/upsert fold over a normalized batch, in input
// order. Per-item malformed-data errors accumulate and never abort the
// batch; storage failures propagate immediately (a retried batch will
// re-detect already-written items as duplicates).
func (s *Service) upsert(listID int64, inputs []property.Input, errs []string) (Stats, []string, error) {
	stats := Stats{
		Total:  len(inputs) + len(errs),
		Errors: len(errs),
	}

	// Batch-local URL tracking: repeats within one upload count as
	// duplicates without a second lookup.
	seen := make(map[string]bool, len(inputs))

	for _, in := range inputs {
		if in.SourceURL == nil || *in.SourceURL == "" {
			// No dedup key — always a fresh row.
			if _, err := s.props.Insert(listID, in); err != nil {
				return stats, errs, fmt.Errorf("inserting property: %w", err)
			}
			stats.New++
			continue
		}

		url := *in.SourceURL
		if seen[url] {
			stats.Duplicates++
			continue
		}
		seen[url] = true

		existing, err := s.props.GetBySourceURL(listID, url)
		switch {
		case errors.Is(err, property.ErrNotFound):
			if _, err := s.props.Insert(listID, in); err != nil {
				if property.IsUniqueViolation(err) {
					// A concurrent upload won the race; converge on duplicate.
					stats.Duplicates++
					continue
				}
				return stats, errs, fmt.Errorf("inserting property %s: %w", url, err)
			}
			stats.New++
		case err != nil:
			return stats, errs, fmt.Errorf("looking up property %s: %w", url, err)
		case existing.Differs(in):
			if err := s.props.Update(existing.ID, in); err != nil {
				return stats, errs, fmt.Errorf("updating property %s: %w", url, err)
			}
			stats.Updated++
		default:
			stats.Duplicates++
		}
	}

	if stats.New+stats.Updated > 0 {
		if s.pricePerLead > 0 {
			if err := s.lists.RecalculatePrice(listID, s.pricePerLead); err != nil {
				return stats, errs, fmt.Errorf("recalculating list price: %w", err)
			}
		} else if err := s.lists.Touch(listID); err != nil {
			return stats, errs, fmt.Errorf("touching list: %w", err)
		}
	}

	return stats, errs, nil
}
