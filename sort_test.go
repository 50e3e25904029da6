package main

import (
	"slices"
	"strconv"
	"testing"
)

func TestSortRecords_TimeAscendingDescending(t *testing.T) {
	records := []*Record{
		mustRecord(t, `{"time":"2025-01-01T10:00:00Z","level":"warn"}`),
		mustRecord(t, `{"time":"2025-01-01T09:58:00Z","level":"info"}`),
	}

	sortRecords(records, "time", false)
	if records[0].FieldString("time") != "2025-01-01T09:58:00Z" {
		t.Errorf("ascending: expected 09:58 first, got %s", records[0].FieldString("time"))
	}

	sortRecords(records, "time", true)
	if records[0].FieldString("time") != "2025-01-01T10:00:00Z" {
		t.Errorf("descending: expected 10:00 first, got %s", records[0].FieldString("time"))
	}
}

func TestSortRecords_DescendingIsReversedAscending(t *testing.T) {
	build := func() []*Record {
		return []*Record{
			mustRecord(t, `{"level":"warn","message":"Entry 1"}`),
			mustRecord(t, `{"level":"info","message":"Entry 2"}`),
			mustRecord(t, `{"level":"warn","message":"Entry 3"}`),
			mustRecord(t, `{"level":"error","message":"Entry 4"}`),
			mustRecord(t, `{"level":"info","message":"Entry 5"}`),
		}
	}

	asc := build()
	sortRecords(asc, "level", false)

	desc := build()
	sortRecords(desc, "level", true)

	reversed := slices.Clone(asc)
	slices.Reverse(reversed)
	for i := range desc {
		if desc[i].FieldString("message") != reversed[i].FieldString("message") {
			t.Fatalf("descending differs from reversed ascending at %d: %s vs %s",
				i, desc[i].FieldString("message"), reversed[i].FieldString("message"))
		}
	}
}

func TestSortRecords_StableTies(t *testing.T) {
	records := []*Record{
		mustRecord(t, `{"level":"info","message":"first"}`),
		mustRecord(t, `{"level":"info","message":"second"}`),
		mustRecord(t, `{"level":"info","message":"third"}`),
	}

	sortRecords(records, "level", false)

	want := []string{"first", "second", "third"}
	for i, msg := range want {
		if records[i].FieldString("message") != msg {
			t.Errorf("tie order broken at %d: expected %q, got %q", i, msg, records[i].FieldString("message"))
		}
	}
}

func TestSortRecords_NumericBeforeStringFallback(t *testing.T) {
	records := []*Record{
		mustRecord(t, `{"duration":10}`),
		mustRecord(t, `{"duration":2}`),
		mustRecord(t, `{"duration":1}`),
	}

	sortRecords(records, "duration", false)

	// Numeric comparison: 1 < 2 < 10; lexicographic would give 1, 10, 2.
	want := []string{"1", "2", "10"}
	for i, d := range want {
		if records[i].FieldString("duration") != d {
			t.Errorf("index %d: expected %s, got %s", i, d, records[i].FieldString("duration"))
		}
	}
}

func TestSortRecords_CaseInsensitiveStringCompare(t *testing.T) {
	records := []*Record{
		mustRecord(t, `{"source":"Server"}`),
		mustRecord(t, `{"source":"client"}`),
		mustRecord(t, `{"source":"Agent"}`),
	}

	sortRecords(records, "source", false)

	want := []string{"Agent", "client", "Server"}
	for i, s := range want {
		if records[i].FieldString("source") != s {
			t.Errorf("index %d: expected %s, got %s", i, s, records[i].FieldString("source"))
		}
	}
}

func TestSortRecords_MissingFieldSortsFirst(t *testing.T) {
	records := []*Record{
		mustRecord(t, `{"source":"server","message":"has source"}`),
		mustRecord(t, `{"message":"no source"}`),
	}

	sortRecords(records, "source", false)

	if records[0].FieldString("message") != "no source" {
		t.Errorf("missing field should compare as empty string and sort first, got %q first",
			records[0].FieldString("message"))
	}
}

func TestSortRecords_UnparsableTimeFallsBackToString(t *testing.T) {
	records := []*Record{
		mustRecord(t, `{"time":"yesterday","message":"b"}`),
		mustRecord(t, `{"time":"around noon","message":"a"}`),
	}

	sortRecords(records, "time", false)

	if records[0].FieldString("time") != "around noon" {
		t.Errorf("unparsable times should compare as raw strings, got %s first",
			records[0].FieldString("time"))
	}
}

func TestParseTimestamp_ZSuffix(t *testing.T) {
	a, ok := parseTimestamp("2025-10-20T17:19:16Z")
	if !ok {
		t.Fatal("Z-suffixed timestamp should parse")
	}
	b, ok := parseTimestamp("2025-10-20T17:19:16+00:00")
	if !ok {
		t.Fatal("explicit-offset timestamp should parse")
	}
	if !a.Equal(b) {
		t.Errorf("Z suffix should be equivalent to +00:00: %v vs %v", a, b)
	}
}

func BenchmarkSortRecords_Time(b *testing.B) {
	base := make([]*Record, 0, 10000)
	for i := 0; i < 10000; i++ {
		line := `{"time":"2025-10-20T17:19:16Z","level":"info","serialNum":` + strconv.Itoa(i%10) + `}`
		rec, err := ParseRecord([]byte(line))
		if err != nil {
			b.Fatal(err)
		}
		base = append(base, rec)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		records := slices.Clone(base)
		sortRecords(records, "time", false)
	}
}
