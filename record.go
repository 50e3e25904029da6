package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
)

// Record is one parsed log entry: an ordered field-name-to-value bag.
// The field set is not fixed across records in the same dataset. A
// Record is immutable once parsed; filters and sorts only reorder or
// select references to it.
type Record struct {
	keys   []string
	fields map[string]any
}

// ParseRecord parses one JSONL line into a Record, preserving the
// order of the top-level keys. Numbers are kept as json.Number so the
// original literal survives export round-trips.
func ParseRecord(line []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: line is not a JSON object", ErrMalformedRecord)
	}

	rec := &Record{fields: make(map[string]any)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string object key", ErrMalformedRecord)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}

		if _, seen := rec.fields[key]; !seen {
			rec.keys = append(rec.keys, key)
		}
		rec.fields[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	// One line is exactly one object; anything after it is malformed.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedRecord)
	}

	return rec, nil
}

// Keys returns the field names in their original order.
func (r *Record) Keys() []string {
	return r.keys
}

// Get returns the value for a field and whether the field exists.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// FieldString returns the textual form of a field value. Missing
// fields stringify to the empty string.
func (r *Record) FieldString(key string) string {
	v, ok := r.fields[key]
	if !ok {
		return ""
	}
	return valueString(v)
}

// Equal reports full field-by-field equality, used as the fallback
// when locating a record by identity fails.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	return slices.Equal(r.keys, other.keys) && reflect.DeepEqual(r.fields, other.fields)
}

// MarshalJSON writes the record back out with its original key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.fields[key])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// valueString converts any field value to the textual form used by
// search, sort fallback and CSV export. Nested objects and arrays
// stringify as compact JSON.
func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
