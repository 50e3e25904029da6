package main

import "strings"

// LevelAll is the threshold that disables severity filtering.
const LevelAll = "all"

// logLevels ranks the severity hierarchy. warn/warning and fatal/panic
// are synonyms at equal rank.
var logLevels = map[string]int{
	"debug":   0,
	"info":    1,
	"warn":    2,
	"warning": 2,
	"error":   3,
	"fatal":   4,
	"panic":   4,
}

// levelThresholds lists the selectable thresholds in cycling order.
var levelThresholds = []string{LevelAll, "debug", "info", "warn", "error", "fatal"}

// passesLevel reports whether a record clears the severity threshold.
// Threshold "all" passes everything. A record whose level field is
// missing or not in the hierarchy passes unconditionally: unknown
// levels are never filtered out.
func passesLevel(rec *Record, threshold string) bool {
	if threshold == LevelAll {
		return true
	}
	want, ok := logLevels[strings.ToLower(threshold)]
	if !ok {
		return true
	}
	rank, ok := logLevels[strings.ToLower(rec.FieldString("level"))]
	if !ok {
		return true
	}
	return rank >= want
}
