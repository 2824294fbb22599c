package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dd0wney/entitygraph/pkg/entity"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLookupLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		ok       bool
	}{
		{"DEBUG", DebugLevel, true},
		{"debug", DebugLevel, true},
		{" info ", InfoLevel, true},
		{"Warn", WarnLevel, true},
		{"warning", WarnLevel, true},
		{"ERROR", ErrorLevel, true},
		{"verbose", InfoLevel, false},
		{"", InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := LookupLevel(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("LookupLevel(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.expected, tt.ok)
			}
			if ParseLevel(tt.input) != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, ParseLevel(tt.input), tt.expected)
			}
		})
	}
}

func TestDomainFields(t *testing.T) {
	w := entity.NewWorld()
	e := w.Spawn()

	if f := Entity(e); f.Key != "entity" || f.Value != e.String() {
		t.Errorf("Entity() = %+v", f)
	}
	if f := ComponentID(e); f.Key != "connected_component" || f.Value != e.String() {
		t.Errorf("ComponentID() = %+v", f)
	}
	if f := Tick(7); f.Key != "tick" || f.Value != uint64(7) {
		t.Errorf("Tick() = %+v", f)
	}
	if f := Latency(2 * time.Millisecond); f.Key != "latency" || f.Value != "2ms" {
		t.Errorf("Latency() = %+v", f)
	}
	if f := Error(errors.New("boom")); f.Value != "boom" {
		t.Errorf("Error() = %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("tick complete", Tick(3), Count(4))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "tick complete" {
		t.Errorf("Message = %v, want 'tick complete'", entry.Message)
	}
	if entry.Fields["tick"] != float64(3) { // JSON numbers decode as float64
		t.Errorf("Fields[tick] = %v, want 3", entry.Fields["tick"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, InfoLevel).Info("bare")

	if strings.Contains(buf.String(), `"fields"`) {
		t.Errorf("expected no fields key, got %s", buf.String())
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}

	for i, want := range []string{"WARN", "ERROR"} {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != want {
			t.Errorf("entry %d level = %v, want %v", i, entry.Level, want)
		}
	}
}

func TestJSONLogger_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, InfoLevel)
	child := parent.With(String("component", "maintainer"))

	parent.SetLevel(ErrorLevel)
	child.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("child should follow parent level, got %s", buf.String())
	}

	parent.SetLevel(DebugLevel)
	child.Warn("kept", String("component", "override"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["component"] != "override" {
		t.Errorf("component = %v, want call-site override", entry.Fields["component"])
	}
	if child.GetLevel() != DebugLevel {
		t.Errorf("child level = %v, want DEBUG", child.GetLevel())
	}
}

func TestDefaultLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	defer SetDefaultLogger(nil)

	DefaultLogger().Debug("hello")
	if !strings.Contains(buf.String(), `"hello"`) {
		t.Errorf("default logger did not write, got %q", buf.String())
	}
}

func TestTimedOperation(t *testing.T) {
	rec := NewRecorder()
	timer := StartTimer(rec, "tick", Tick(1))
	elapsed := timer.EndWithLevel(DebugLevel, Count(2))

	if elapsed < 0 {
		t.Errorf("elapsed = %v", elapsed)
	}
	entries := rec.Entries()
	if len(entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(entries))
	}
	got := entries[0]
	if got.Message != "tick" || got.Fields["tick"] != uint64(1) || got.Fields["count"] != 2 {
		t.Errorf("unexpected entry %+v", got)
	}
	if _, ok := got.Fields["latency"]; !ok {
		t.Error("latency field missing")
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	child := rec.With(RunID("r1"))

	child.Warn("missing node", Kind("missing_node"))
	rec.Info("other")

	warns := rec.AtLevel(WarnLevel)
	if len(warns) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warns))
	}
	if warns[0].Fields["run_id"] != "r1" || warns[0].Fields["kind"] != "missing_node" {
		t.Errorf("unexpected fields %+v", warns[0].Fields)
	}

	rec.SetLevel(ErrorLevel)
	rec.Warn("filtered")
	if len(rec.Entries()) != 2 {
		t.Errorf("entries = %d, want 2", len(rec.Entries()))
	}

	rec.Reset()
	if len(rec.Entries()) != 0 {
		t.Error("Reset did not clear entries")
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NewNopLogger()
	l.Info("ignored")
	if l.With(Count(1)) == nil {
		t.Error("With returned nil")
	}
}
