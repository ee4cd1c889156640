// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"
)

// capture redirects the stdlib log output for the duration of fn.
func capture(fn func()) string {
	var buf bytes.Buffer
	prevOut := log.Writer()
	prevFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}()
	fn()
	return buf.String()
}

func TestLogEmitsJSON(t *testing.T) {
	l := New("planner")

	out := capture(func() {
		l.Info("sess-1", "req-1", "route fetch complete", map[string]interface{}{
			"routes": 3,
		})
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, out)
	}
	if entry.Level != INFO {
		t.Errorf("level = %s, want INFO", entry.Level)
	}
	if entry.Component != "planner" {
		t.Errorf("component = %s, want planner", entry.Component)
	}
	if entry.SessionID != "sess-1" || entry.RequestID != "req-1" {
		t.Errorf("correlation ids not carried: %+v", entry)
	}
	if entry.Fields["routes"] != float64(3) {
		t.Errorf("fields not carried: %+v", entry.Fields)
	}
}

func TestLogLevels(t *testing.T) {
	l := New("test")

	tests := []struct {
		name  string
		fn    func()
		level LogLevel
	}{
		{"debug", func() { l.Debug("", "", "m", nil) }, DEBUG},
		{"info", func() { l.Info("", "", "m", nil) }, INFO},
		{"warn", func() { l.Warn("", "", "m", nil) }, WARN},
		{"error", func() { l.Error("", "", "m", nil) }, ERROR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capture(tt.fn)
			var entry LogEntry
			if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if entry.Level != tt.level {
				t.Errorf("level = %s, want %s", entry.Level, tt.level)
			}
		})
	}
}

func TestErrorWithErr(t *testing.T) {
	l := New("test")

	out := capture(func() {
		l.ErrorWithErr("s", "r", "fetch failed", errFake("boom"), nil)
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry.Fields["error"] != "boom" {
		t.Errorf("error field = %v, want boom", entry.Fields["error"])
	}
}

func TestInfoWithDuration(t *testing.T) {
	l := New("test")

	out := capture(func() {
		l.InfoWithDuration("s", "r", "done", 12.5, nil)
	})

	var entry LogEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry.Fields["duration_ms"] != 12.5 {
		t.Errorf("duration_ms = %v, want 12.5", entry.Fields["duration_ms"])
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }
