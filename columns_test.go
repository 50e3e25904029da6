package main

import (
	"slices"
	"testing"
)

func TestColumnCatalog_PriorityOrdering(t *testing.T) {
	batch := []*Record{
		mustRecord(t, `{"url":"/health","serialNum":1,"message":"Request served","level":"info","time":"2025-10-20T17:19:16Z"}`),
		mustRecord(t, `{"deviceID":"abc","time":"2025-10-20T17:19:17Z"}`),
	}

	catalog := NewColumnCatalog()
	catalog.Update(batch)

	want := []string{"time", "level", "message", "deviceID", "serialNum", "url"}
	if !slices.Equal(catalog.Columns(), want) {
		t.Errorf("expected %v, got %v", want, catalog.Columns())
	}
}

func TestColumnCatalog_PriorityOnlyWhenPresent(t *testing.T) {
	batch := []*Record{
		mustRecord(t, `{"b":1,"a":2}`),
	}

	catalog := NewColumnCatalog()
	catalog.Update(batch)

	want := []string{"a", "b"}
	if !slices.Equal(catalog.Columns(), want) {
		t.Errorf("expected %v, got %v", want, catalog.Columns())
	}
}

func TestColumnCatalog_MergeRetainsNames(t *testing.T) {
	catalog := NewColumnCatalog()
	catalog.Update([]*Record{
		mustRecord(t, `{"time":"2025-10-20T17:19:16Z","organizationID":"67e5"}`),
	})
	catalog.Update([]*Record{
		mustRecord(t, `{"level":"warn","git_revision":"v0.9.0"}`),
	})

	want := []string{"time", "level", "git_revision", "organizationID"}
	if !slices.Equal(catalog.Columns(), want) {
		t.Errorf("expected %v, got %v", want, catalog.Columns())
	}
}

func TestColumnCatalog_NoDuplicates(t *testing.T) {
	catalog := NewColumnCatalog()
	batch := []*Record{
		mustRecord(t, `{"time":"a","level":"info","message":"x"}`),
		mustRecord(t, `{"time":"b","level":"warn","message":"y"}`),
	}
	catalog.Update(batch)
	catalog.Update(batch)

	seen := make(map[string]int)
	for _, col := range catalog.Columns() {
		seen[col]++
	}
	for col, n := range seen {
		if n > 1 {
			t.Errorf("column %q appears %d times", col, n)
		}
	}
	if catalog.Len() != 3 {
		t.Errorf("expected 3 columns, got %d", catalog.Len())
	}
}
