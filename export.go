package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Export serializes the currently visible records. The engine hands
// over a read-only sequence plus the catalog column order; nothing
// here touches dataset state.

// ExportCSV writes records as CSV with one column per catalog entry.
// Nested values become JSON strings in their cells.
func ExportCSV(w io.Writer, records []*Record, columns []string) error {
	if len(records) == 0 || len(columns) == 0 {
		return fmt.Errorf("%w: nothing to export", ErrEmptySelection)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = rec.FieldString(col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportJSON writes records as one indented JSON array.
func ExportJSON(w io.Writer, records []*Record) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: nothing to export", ErrEmptySelection)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ExportJSONL writes records back out as newline-delimited JSON, each
// record with its original key order.
func ExportJSONL(w io.Writer, records []*Record) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: nothing to export", ErrEmptySelection)
	}
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		data, err := rec.MarshalJSON()
		if err != nil {
			return err
		}
		bw.Write(data)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ExportToFile picks the format from the file extension (.csv, .json,
// anything else JSONL) and writes the records there.
func ExportToFile(path string, records []*Record, columns []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ExportCSV(file, records, columns)
	case ".json":
		return ExportJSON(file, records)
	default:
		return ExportJSONL(file, records)
	}
}
