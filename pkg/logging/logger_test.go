package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newBufferedLogger(level LogLevel) (*StructuredLogger, *bytes.Buffer) {
	logger := NewStructuredLogger("test-service", "1.0.0", level)
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	return logger, buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) LogEntry {
	t.Helper()
	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry: %v, raw: %s", err, buf.String())
	}
	return entry
}

func TestStructuredLogger_InfoEntry(t *testing.T) {
	logger, buf := newBufferedLogger(InfoLevel)

	logger.Info(context.Background(), "[TEST] Something happened", Fields{
		"count": 3,
	})

	entry := decodeEntry(t, buf)

	if entry.Level != "INFO" {
		t.Errorf("Level = %q, want INFO", entry.Level)
	}
	if entry.Service != "test-service" {
		t.Errorf("Service = %q, want test-service", entry.Service)
	}
	if entry.Message != "[TEST] Something happened" {
		t.Errorf("Message = %q", entry.Message)
	}
	if entry.Fields["count"] != float64(3) {
		t.Errorf("Fields[count] = %v, want 3", entry.Fields["count"])
	}
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedLogger(WarnLevel)

	logger.Debug(context.Background(), "debug message", Fields{})
	logger.Info(context.Background(), "info message", Fields{})

	if buf.Len() != 0 {
		t.Errorf("sub-threshold messages were written: %s", buf.String())
	}

	logger.Warn(context.Background(), "warn message", Fields{})

	if buf.Len() == 0 {
		t.Error("warn message was filtered out")
	}
}

func TestStructuredLogger_ErrorIncludesDetails(t *testing.T) {
	logger, buf := newBufferedLogger(ErrorLevel)

	logger.Error(context.Background(), "operation failed", Fields{}, errors.New("disk full"))

	entry := decodeEntry(t, buf)

	if entry.Error != "disk full" {
		t.Errorf("Error = %q, want %q", entry.Error, "disk full")
	}
	if entry.File == "" || entry.Line == 0 {
		t.Error("caller information missing from error entry")
	}
}

func TestStructuredLogger_RequestIDFromContext(t *testing.T) {
	logger, buf := newBufferedLogger(InfoLevel)

	ctx := WithRequestID(context.Background(), "req-abc-123")
	logger.Info(ctx, "handled", Fields{})

	entry := decodeEntry(t, buf)
	if entry.RequestID != "req-abc-123" {
		t.Errorf("RequestID = %q, want req-abc-123", entry.RequestID)
	}
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
	if got := RequestIDFromContext(nil); got != "" {
		t.Errorf("RequestIDFromContext(nil) = %q, want empty", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestContextLogger_MergesFields(t *testing.T) {
	logger, buf := newBufferedLogger(InfoLevel)

	contextLogger := logger.WithFields(Fields{"component": "scorer", "shared": "base"})
	contextLogger.Info(context.Background(), "scored", Fields{"shared": "override", "extra": "value"})

	entry := decodeEntry(t, buf)

	if entry.Fields["component"] != "scorer" {
		t.Errorf("Fields[component] = %v, want scorer", entry.Fields["component"])
	}
	if entry.Fields["shared"] != "override" {
		t.Errorf("Fields[shared] = %v, want override", entry.Fields["shared"])
	}
	if entry.Fields["extra"] != "value" {
		t.Errorf("Fields[extra] = %v, want value", entry.Fields["extra"])
	}
}

func TestStructuredLogger_OneLinePerEntry(t *testing.T) {
	logger, buf := newBufferedLogger(InfoLevel)

	logger.Info(context.Background(), "first", Fields{})
	logger.Info(context.Background(), "second", Fields{})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	for i, line := range lines {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}
