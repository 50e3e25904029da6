package main

import "testing"

func TestPassesLevel_Threshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold string
		level     string
		want      bool
	}{
		{"all passes debug", LevelAll, "debug", true},
		{"all passes error", LevelAll, "error", true},
		{"warn threshold drops info", "warn", "info", false},
		{"warn threshold keeps warn", "warn", "warn", true},
		{"warn threshold keeps warning synonym", "warn", "warning", true},
		{"warn threshold keeps error", "warn", "error", true},
		{"error threshold drops warn", "error", "warn", false},
		{"error threshold keeps error", "error", "error", true},
		{"error threshold keeps fatal", "error", "fatal", true},
		{"error threshold keeps panic", "error", "panic", true},
		{"fatal threshold drops error", "fatal", "error", false},
		{"fatal threshold keeps panic", "fatal", "panic", true},
		{"case insensitive level", "warn", "ERROR", true},
		{"unknown level always passes", "error", "notice", true},
		{"missing level always passes", "error", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := `{"message":"test"}`
			if tt.level != "" {
				line = `{"level":"` + tt.level + `","message":"test"}`
			}
			rec := mustRecord(t, line)
			if got := passesLevel(rec, tt.threshold); got != tt.want {
				t.Errorf("passesLevel(level=%q, threshold=%q) = %v, want %v",
					tt.level, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestDataset_LevelThresholdScenario(t *testing.T) {
	ds := datasetFromLines(t,
		`{"level":"debug","message":"d"}`,
		`{"level":"info","message":"i"}`,
		`{"level":"warning","message":"w"}`,
		`{"level":"error","message":"e"}`,
	)

	ds.SetLevelThreshold("warn")

	visible := ds.Visible()
	if len(visible) != 2 {
		t.Fatalf("expected 2 records at warn threshold, got %d", len(visible))
	}
	for _, rec := range visible {
		lvl := rec.FieldString("level")
		if lvl != "warning" && lvl != "error" {
			t.Errorf("unexpected level in view: %s", lvl)
		}
	}
}

func TestLevelThresholds_CycleOrder(t *testing.T) {
	if levelThresholds[0] != LevelAll {
		t.Errorf("cycle should start at %q, got %q", LevelAll, levelThresholds[0])
	}
	for i := 2; i < len(levelThresholds); i++ {
		prev := logLevels[levelThresholds[i-1]]
		cur := logLevels[levelThresholds[i]]
		if cur <= prev {
			t.Errorf("thresholds not strictly increasing: %s (%d) after %s (%d)",
				levelThresholds[i], cur, levelThresholds[i-1], prev)
		}
	}
}
