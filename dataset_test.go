package main

import (
	"errors"
	"testing"
)

func datasetFromLines(t *testing.T, lines ...string) *Dataset {
	t.Helper()
	records := make([]*Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, mustRecord(t, line))
	}
	return NewDataset("test", nil, records, 0)
}

func TestNewDataset_SortedByTime(t *testing.T) {
	ds := datasetFromLines(t,
		`{"time":"2025-01-01T10:00:00Z","message":"later"}`,
		`{"time":"2025-01-01T09:00:00Z","message":"earlier"}`,
	)

	visible := ds.Visible()
	if visible[0].FieldString("message") != "earlier" {
		t.Errorf("fresh dataset should be time ascending, got %q first", visible[0].FieldString("message"))
	}
	if ds.Sort().Key != "time" || ds.Sort().Descending {
		t.Errorf("default sort should be time ascending, got %+v", ds.Sort())
	}
}

func TestDataset_ViewTriState(t *testing.T) {
	ds := datasetFromLines(t,
		`{"level":"info","message":"a"}`,
		`{"level":"info","message":"b"}`,
	)

	if ds.Status().Filtered {
		t.Error("no filter applied: status should not report filtered")
	}

	ds.SetSearch([]string{"nothing matches this"}, SearchAnd)
	status := ds.Status()
	if !status.Filtered {
		t.Error("active filter with zero matches should still report filtered")
	}
	if status.Shown != 0 {
		t.Errorf("expected 0 shown, got %d", status.Shown)
	}
	if len(ds.Visible()) != 0 {
		t.Errorf("view should be empty, got %d records", len(ds.Visible()))
	}

	ds.SetSearch(nil, SearchAnd)
	if ds.Status().Filtered {
		t.Error("clearing the filter should return to the unfiltered state")
	}
	if len(ds.Visible()) != 2 {
		t.Errorf("expected full set after clearing, got %d", len(ds.Visible()))
	}
}

func TestDataset_RecomputeViewIdempotent(t *testing.T) {
	ds := datasetFromLines(t,
		`{"level":"error","message":"boom"}`,
		`{"level":"info","message":"fine"}`,
		`{"level":"error","message":"bang"}`,
	)

	ds.SetLevelThreshold("error")
	first := make([]*Record, len(ds.Visible()))
	copy(first, ds.Visible())

	ds.SetLevelThreshold("error")
	second := ds.Visible()

	if len(first) != len(second) {
		t.Fatalf("repeat application changed the view size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("repeat application changed the view at index %d", i)
		}
	}
}

func TestDataset_SortAppliesToActiveAndView(t *testing.T) {
	ds := datasetFromLines(t,
		`{"level":"error","message":"zebra"}`,
		`{"level":"info","message":"apple"}`,
		`{"level":"error","message":"apple"}`,
		`{"level":"error","message":"mango"}`,
	)

	ds.SetLevelThreshold("error")
	ds.SortBy("message")

	view := ds.Visible()
	want := []string{"apple", "mango", "zebra"}
	for i, msg := range want {
		if view[i].FieldString("message") != msg {
			t.Errorf("view index %d: expected %q, got %q", i, msg, view[i].FieldString("message"))
		}
	}

	// Dropping the filter must expose the same ordering in the full set.
	ds.SetLevelThreshold(LevelAll)
	all := ds.Visible()
	wantAll := []string{"apple", "apple", "mango", "zebra"}
	for i, msg := range wantAll {
		if all[i].FieldString("message") != msg {
			t.Errorf("unfiltered index %d: expected %q, got %q", i, msg, all[i].FieldString("message"))
		}
	}
}

func TestDataset_SortByTogglesDirection(t *testing.T) {
	ds := datasetFromLines(t,
		`{"message":"a"}`,
		`{"message":"b"}`,
	)

	ds.SortBy("message")
	if ds.Sort().Descending {
		t.Error("first sort on a column should be ascending")
	}
	ds.SortBy("message")
	if !ds.Sort().Descending {
		t.Error("second sort on the same column should toggle to descending")
	}
	ds.SortBy("level")
	if ds.Sort().Key != "level" || ds.Sort().Descending {
		t.Error("sorting a new column should reset to ascending")
	}
}

func TestDataset_ApplyDateRangeErrorLeavesStateUntouched(t *testing.T) {
	ds := datasetFromLines(t,
		`{"time":"2025-01-01T10:00:00Z","message":"a"}`,
		`{"time":"2025-01-02T10:00:00Z","message":"b"}`,
	)
	before := ds.Status()

	err := ds.ApplyDateRange(nil, nil)
	if !errors.Is(err, ErrInvalidFilterRequest) {
		t.Fatalf("expected ErrInvalidFilterRequest, got %v", err)
	}

	after := ds.Status()
	if after.Active != before.Active || after.Shown != before.Shown {
		t.Errorf("failed filter request mutated state: before %+v, after %+v", before, after)
	}
	if ds.Filter().From != nil || ds.Filter().To != nil {
		t.Error("failed filter request recorded bounds")
	}
}

func TestDataset_ClearDateRangeRestoresUnderCurrentSort(t *testing.T) {
	ds := datasetFromLines(t,
		`{"time":"2025-01-01T10:00:00Z","message":"c"}`,
		`{"time":"2025-01-02T10:00:00Z","message":"a"}`,
		`{"time":"2025-01-03T10:00:00Z","message":"b"}`,
	)

	from := tsPtr(t, "2025-01-02T00:00:00Z")
	if err := ds.ApplyDateRange(from, nil); err != nil {
		t.Fatal(err)
	}
	if ds.Status().Active != 2 {
		t.Fatalf("expected 2 active after range, got %d", ds.Status().Active)
	}

	ds.SortBy("message")
	ds.ClearDateRange()

	visible := ds.Visible()
	if len(visible) != 3 {
		t.Fatalf("expected full set restored, got %d", len(visible))
	}
	want := []string{"a", "b", "c"}
	for i, msg := range want {
		if visible[i].FieldString("message") != msg {
			t.Errorf("restored set should follow the current sort: index %d expected %q, got %q",
				i, msg, visible[i].FieldString("message"))
		}
	}
}

func TestDataset_MergeUnionsColumnsAndRefilters(t *testing.T) {
	ds := datasetFromLines(t,
		`{"time":"2025-01-01T10:00:00Z","level":"info","message":"first"}`,
	)
	ds.SetLevelThreshold("error")

	extra := []*Record{
		mustRecord(t, `{"time":"2025-01-01T09:00:00Z","level":"error","message":"merged","source":"worker"}`),
	}
	ds.Merge(extra, 2)

	cols := ds.Catalog().Columns()
	found := false
	for _, c := range cols {
		if c == "source" {
			found = true
		}
	}
	if !found {
		t.Errorf("merged column missing from catalog: %v", cols)
	}

	if ds.Skipped != 2 {
		t.Errorf("expected skipped count 2, got %d", ds.Skipped)
	}

	visible := ds.Visible()
	if len(visible) != 1 || visible[0].FieldString("message") != "merged" {
		t.Errorf("level filter should apply to merged records, got %d visible", len(visible))
	}

	status := ds.Status()
	if status.Total != 2 {
		t.Errorf("expected total 2 after merge, got %d", status.Total)
	}
}

func TestDataset_StatusDescriptions(t *testing.T) {
	ds := datasetFromLines(t,
		`{"time":"2025-01-01T10:00:00Z","level":"error","message":"disk full"}`,
	)

	ds.SetLevelThreshold("warn")
	ds.SetSearch([]string{"disk", "full"}, SearchAnd)
	from := tsPtr(t, "2025-01-01T00:00:00Z")
	if err := ds.ApplyDateRange(from, nil); err != nil {
		t.Fatal(err)
	}

	status := ds.Status()
	if len(status.Descriptions) != 3 {
		t.Fatalf("expected 3 descriptions, got %v", status.Descriptions)
	}
	if status.Descriptions[0] != "level >= warn" {
		t.Errorf("unexpected level description: %q", status.Descriptions[0])
	}
	if status.Descriptions[1] != `search: "disk" AND "full"` {
		t.Errorf("unexpected search description: %q", status.Descriptions[1])
	}
	if status.Descriptions[2] != "time >= 2025-01-01T00:00:00Z" {
		t.Errorf("unexpected date description: %q", status.Descriptions[2])
	}
}
