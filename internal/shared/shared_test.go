package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "0:00"},
		{name: "pads seconds", seconds: 65, want: "1:05"},
		{name: "imagine", seconds: 183, want: "3:03"},
		{name: "over an hour", seconds: 3725, want: "62:05"},
		{name: "negative clamps", seconds: -4, want: "0:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string][]int{"a": {1}}

	t.Run("compact", func(t *testing.T) {
		data, err := MarshalJSON(v, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"a":[1]}` {
			t.Errorf("got %s", data)
		}
	})

	t.Run("pretty uses two spaces", func(t *testing.T) {
		data, err := MarshalJSON(v, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "\n  \"a\": [\n    1\n  ]") {
			t.Errorf("unexpected indentation: %q", data)
		}
	})

	t.Run("unsupported value", func(t *testing.T) {
		if _, err := MarshalJSON(make(chan int), true); err == nil {
			t.Error("expected error for channel value")
		}
	})
}

func TestLoggers(t *testing.T) {
	t.Run("NewLogger writes to writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "component", "test").Info("hello")

		out := buf.String()
		if !strings.Contains(out, "hello") || !strings.Contains(out, "component=test") {
			t.Errorf("unexpected log output: %s", out)
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "setlist.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("to file")

		if _, err := os.Stat(path); err != nil {
			t.Errorf("log file missing: %v", err)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected a valid uuid, got %s", a)
	}
}
