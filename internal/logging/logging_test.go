package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// captureLogOutput reinitializes the logger into a buffer, runs f and
// restores the previous logger.
func captureLogOutput(level Level, format Format, f func()) string {
	var buf bytes.Buffer
	old := defaultLogger
	InitLoggerTo(&buf, level, format)
	defer func() { defaultLogger = old }()
	f()
	return buf.String()
}

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		records = append(records, rec)
	}
	return records
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestLevelFiltering(t *testing.T) {
	out := captureLogOutput(LevelWarn, FormatText, func() {
		Info("hidden")
		Warn("shown")
	})
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestTimestampFormat(t *testing.T) {
	out := captureLogOutput(LevelInfo, FormatJSON, func() { Info("tick") })
	recs := decodeLines(t, out)
	if len(recs) != 1 {
		t.Fatalf("got %d records", len(recs))
	}
	ts, _ := recs[0]["time"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestRunID(t *testing.T) {
	id := NewRunID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewRunID() = %q is not a UUID", id)
	}
	ctx := WithRunID(context.Background(), id)
	if GetRunID(ctx) != id {
		t.Error("GetRunID did not return the stored ID")
	}
	if GetRunID(context.Background()) != "" {
		t.Error("empty context should have no run ID")
	}

	out := captureLogOutput(LevelDebug, FormatJSON, func() {
		UnitStart(ctx, "a.v", "source", 1)
	})
	recs := decodeLines(t, out)
	if recs[0]["run_id"] != id || recs[0]["msg"] != "unit_start" || recs[0]["path"] != "a.v" {
		t.Errorf("record = %v", recs[0])
	}
}

func TestDomainHelpers(t *testing.T) {
	ctx := context.Background()
	out := captureLogOutput(LevelDebug, FormatJSON, func() {
		OracleCall(ctx, "process", 3, 1500*time.Millisecond, nil)
		OracleCall(ctx, "process", 3, time.Second, errors.New("boom"))
		CacheEvent(ctx, "0123456789abcdef0123", true)
		OutputWritten(ctx, "out/a.html", "webpage", 42)
		CacheStats(ctx, 5, 2, 1, 4)
	})
	recs := decodeLines(t, out)
	if len(recs) != 5 {
		t.Fatalf("got %d records: %s", len(recs), out)
	}
	if recs[0]["duration_ms"] != float64(1500) || recs[0]["level"] != "INFO" {
		t.Errorf("oracle_call = %v", recs[0])
	}
	if recs[1]["level"] != "ERROR" || recs[1]["error"] != "boom" {
		t.Errorf("failed oracle_call = %v", recs[1])
	}
	if recs[2]["key"] != "0123456789ab" || recs[2]["hit"] != true {
		t.Errorf("cache_event = %v", recs[2])
	}
	if recs[3]["bytes"] != float64(42) || recs[3]["writer"] != "webpage" {
		t.Errorf("output_written = %v", recs[3])
	}
	if recs[4]["msg"] != "cache_stats" || recs[4]["hits"] != float64(5) || recs[4]["entries"] != float64(4) {
		t.Errorf("cache_stats = %v", recs[4])
	}
}
