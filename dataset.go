package main

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// FilterState is the complete filter configuration of one dataset. All
// dimensions are independent and compose by logical AND; the date range
// is applied first and separately against the full record set.
type FilterState struct {
	Level string
	Terms []string
	Logic SearchLogic
	From  *time.Time
	To    *time.Time
}

func (f FilterState) levelActive() bool {
	return f.Level != "" && f.Level != LevelAll
}

func (f FilterState) textActive() bool {
	return len(f.Terms) > 0
}

func (f FilterState) dateActive() bool {
	return f.From != nil || f.To != nil
}

// Status is the raw material for a status line: counts plus one
// description string per active filter dimension. Formatting into UI
// text is the rendering surface's job.
type Status struct {
	Shown        int
	Active       int
	Total        int
	Filtered     bool
	Descriptions []string
}

// Dataset owns the record set behind one tab: the full loaded
// sequence, the date-range-filtered subset, and the level/search
// filtered view, all kept consistent under one sort order.
//
// A Dataset has a single logical owner. Its internal sequences are
// replaced, not mutated, by sort and filter calls; callers must not
// retain slices returned by Visible across such calls.
type Dataset struct {
	Title   string
	Files   []string
	Skipped int

	catalog *ColumnCatalog

	// all is the full set as loaded (post-merge), kept in load order.
	// active is the subset surviving the date-range filter. view holds
	// the level/search matches; viewActive distinguishes "filter
	// matched nothing" from "no filter applied".
	all        []*Record
	active     []*Record
	view       []*Record
	viewActive bool

	sortState SortState
	filter    FilterState
}

// NewDataset builds a dataset from one parsed batch. Records are
// ordered by time ascending, the default sort at load.
func NewDataset(title string, files []string, records []*Record, skipped int) *Dataset {
	d := &Dataset{
		Title:     title,
		Files:     files,
		Skipped:   skipped,
		catalog:   NewColumnCatalog(),
		all:       records,
		sortState: SortState{Key: "time"},
		filter:    FilterState{Level: LevelAll},
	}
	d.catalog.Update(records)
	sortRecords(d.all, "time", false)
	d.active = slices.Clone(d.all)
	d.recomputeView()
	return d
}

// Merge folds another parsed batch into the dataset. The column
// catalog keeps previously-seen names, the merged set is re-ordered by
// time as a fresh load would be, and the current date range, filters
// and sort are re-applied.
func (d *Dataset) Merge(records []*Record, skipped int) {
	d.all = append(d.all, records...)
	d.Skipped += skipped
	d.catalog.Update(records)
	sortRecords(d.all, "time", false)

	if d.filter.dateActive() {
		// Both bounds were validated when the range was applied.
		filtered, err := filterByDateRange(d.all, d.filter.From, d.filter.To)
		if err == nil {
			d.active = filtered
		}
	} else {
		d.active = slices.Clone(d.all)
	}
	d.applySort()
	d.recomputeView()
}

// Catalog returns the dataset's column catalog.
func (d *Dataset) Catalog() *ColumnCatalog {
	return d.catalog
}

// Visible returns the sequence to display: the filtered view when a
// level or search filter is active, the date-range-filtered set
// otherwise. Read-only; the slice may be replaced by the next sort or
// filter call.
func (d *Dataset) Visible() []*Record {
	if d.viewActive {
		return d.view
	}
	return d.active
}

// Sort returns the current sort configuration.
func (d *Dataset) Sort() SortState {
	return d.sortState
}

// Filter returns a copy of the current filter configuration.
func (d *Dataset) Filter() FilterState {
	f := d.filter
	f.Terms = slices.Clone(f.Terms)
	return f
}

// SortBy sorts by a column, toggling direction when the column is
// already the sort key and resetting to ascending otherwise.
func (d *Dataset) SortBy(key string) {
	if d.sortState.Key == key {
		d.sortState.Descending = !d.sortState.Descending
	} else {
		d.sortState = SortState{Key: key}
	}
	d.applySort()
}

// SetSort applies an explicit sort configuration.
func (d *Dataset) SetSort(key string, descending bool) {
	d.sortState = SortState{Key: key, Descending: descending}
	d.applySort()
}

// applySort re-sorts the date-filtered set and, when a filter is
// active, the filtered view by the identical key and direction. Both
// must stay consistent in ordering simultaneously; sorting only one
// of them is how the two drift apart.
func (d *Dataset) applySort() {
	sortRecords(d.active, d.sortState.Key, d.sortState.Descending)
	if d.viewActive {
		sortRecords(d.view, d.sortState.Key, d.sortState.Descending)
	}
}

// SetLevelThreshold sets the severity threshold and recomputes the
// view. LevelAll (or "") disables level filtering.
func (d *Dataset) SetLevelThreshold(level string) {
	if level == "" {
		level = LevelAll
	}
	d.filter.Level = level
	d.recomputeView()
}

// SetSearch replaces the search terms and combination logic and
// recomputes the view. Empty or whitespace-only terms are dropped; an
// empty final list deactivates text filtering entirely.
func (d *Dataset) SetSearch(terms []string, logic SearchLogic) {
	d.filter.Terms = cleanTerms(terms)
	d.filter.Logic = logic
	d.recomputeView()
}

// ApplyDateRange filters the full record set to the inclusive range
// and rebuilds the derived views. At least one bound is required; on
// error no state changes.
func (d *Dataset) ApplyDateRange(from, to *time.Time) error {
	filtered, err := filterByDateRange(d.all, from, to)
	if err != nil {
		return err
	}
	d.filter.From = from
	d.filter.To = to
	d.active = filtered
	d.applySort()
	d.recomputeView()
	return nil
}

// ClearDateRange restores the full record set under the current sort
// and recomputes the view, so no stale filtered state survives.
func (d *Dataset) ClearDateRange() {
	d.filter.From = nil
	d.filter.To = nil
	d.active = slices.Clone(d.all)
	d.applySort()
	d.recomputeView()
}

// recomputeView is the single authoritative filter pipeline. It
// rebuilds the view from the date-filtered set in order, so repeated
// calls with unchanged state produce an identical sequence.
func (d *Dataset) recomputeView() {
	if !d.filter.levelActive() && !d.filter.textActive() {
		d.view = nil
		d.viewActive = false
		return
	}

	view := make([]*Record, 0, len(d.active))
	for _, rec := range d.active {
		if !passesLevel(rec, d.filter.Level) {
			continue
		}
		if d.filter.textActive() && !passesSearch(rec, d.filter.Terms, d.filter.Logic) {
			continue
		}
		view = append(view, rec)
	}
	d.view = view
	d.viewActive = true
}

// Status reports the counts and active filter descriptions backing the
// status line.
func (d *Dataset) Status() Status {
	s := Status{
		Shown:    len(d.Visible()),
		Active:   len(d.active),
		Total:    len(d.all),
		Filtered: d.viewActive,
	}
	if d.filter.levelActive() {
		s.Descriptions = append(s.Descriptions, "level >= "+d.filter.Level)
	}
	if d.filter.textActive() {
		quoted := make([]string, len(d.filter.Terms))
		for i, t := range d.filter.Terms {
			quoted[i] = fmt.Sprintf("%q", t)
		}
		s.Descriptions = append(s.Descriptions,
			"search: "+strings.Join(quoted, " "+d.filter.Logic.String()+" "))
	}
	if d.filter.dateActive() {
		s.Descriptions = append(s.Descriptions, describeDateRange(d.filter.From, d.filter.To))
	}
	return s
}

func describeDateRange(from, to *time.Time) string {
	switch {
	case from != nil && to != nil:
		return fmt.Sprintf("time %s .. %s", from.Format(time.RFC3339), to.Format(time.RFC3339))
	case from != nil:
		return "time >= " + from.Format(time.RFC3339)
	default:
		return "time <= " + to.Format(time.RFC3339)
	}
}
