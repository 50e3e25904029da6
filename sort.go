package main

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SortState is the current sort configuration of a dataset.
type SortState struct {
	Key        string
	Descending bool
}

// Layouts accepted for the time column and the date-range filter. A
// literal Z suffix is normalized to +00:00 before these are tried.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(value, "Z") {
		value = strings.TrimSuffix(value, "Z") + "+00:00"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortRecords orders records in place by the given key. The sort is
// stable; records comparing equal keep their prior relative order.
// Descending order reverses the stable ascending result wholesale, so
// ties still resolve by original relative order, only globally
// reversed.
func sortRecords(records []*Record, key string, descending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		return lessByKey(records[i], records[j], key)
	})
	if descending {
		slices.Reverse(records)
	}
}

// lessByKey compares two records under one sort key. The time column
// compares as parsed timestamps when both sides parse, falling back to
// the raw string form otherwise. Every other column tries a float
// comparison first and falls back to the lower-cased string form.
// Missing fields compare as the empty string.
func lessByKey(a, b *Record, key string) bool {
	as := a.FieldString(key)
	bs := b.FieldString(key)

	if key == "time" {
		ta, aok := parseTimestamp(as)
		tb, bok := parseTimestamp(bs)
		if aok && bok {
			return ta.Before(tb)
		}
		return as < bs
	}

	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		return af < bf
	}
	return strings.ToLower(as) < strings.ToLower(bs)
}
