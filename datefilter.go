package main

import (
	"fmt"
	"time"
)

// filterByDateRange restricts records to those whose time field falls
// in the inclusive [from, to] range. At least one bound must be set.
//
// A record with a missing or empty time field is dropped: it cannot be
// placed in any range. A record whose time field is present but
// unparsable is retained. The asymmetry is deliberate; unfamiliar
// timestamp formats fail open rather than silently vanishing.
func filterByDateRange(records []*Record, from, to *time.Time) ([]*Record, error) {
	if from == nil && to == nil {
		return nil, fmt.Errorf("%w: date filter needs at least one bound", ErrInvalidFilterRequest)
	}

	out := make([]*Record, 0, len(records))
	for _, rec := range records {
		value := rec.FieldString("time")
		if value == "" {
			continue
		}
		ts, ok := parseTimestamp(value)
		if !ok {
			out = append(out, rec)
			continue
		}
		if from != nil && ts.Before(*from) {
			continue
		}
		if to != nil && ts.After(*to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
