package main

// PageWindow serves a display sequence in bounded-size increments so a
// large view never has to be rendered in full. It is a pure read-only
// windowing helper; callers accumulate the rendered count themselves.
type PageWindow struct {
	PageSize int
}

// Slice returns the next contiguous block starting at rendered, at
// most PageSize records long.
func (w PageWindow) Slice(seq []*Record, rendered int) []*Record {
	if rendered < 0 {
		rendered = 0
	}
	if rendered >= len(seq) {
		return nil
	}
	end := rendered + w.PageSize
	if end > len(seq) {
		end = len(seq)
	}
	return seq[rendered:end]
}

// Remaining reports how many records past the rendered count are left.
func (w PageWindow) Remaining(seq []*Record, rendered int) int {
	if rendered >= len(seq) {
		return 0
	}
	return len(seq) - rendered
}

// FindAndReveal locates target in seq, by identity first and full
// field equality as a fallback, and returns the index to scroll to.
// Returns -1 when the record is not in the sequence. Used when a
// cleared filter must keep the previously-selected record visible.
func FindAndReveal(seq []*Record, target *Record) int {
	if target == nil {
		return -1
	}
	for i, rec := range seq {
		if rec == target {
			return i
		}
	}
	for i, rec := range seq {
		if rec.Equal(target) {
			return i
		}
	}
	return -1
}
