package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "missing.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"time":"2025-10-08T21:01:05.123Z","level":"WARN","msg":"remote timed out, falling back to cache","component":"repository","count":2,"remote_error":"GET http://x/albums: timeout"}`

	entry, ok := Parse(line)
	if !ok {
		t.Fatalf("Parse returned ok=false for JSON line")
	}
	wantTime := time.Date(2025, 10, 8, 21, 1, 5, 123_000_000, time.UTC)
	if !entry.Time.Equal(wantTime) {
		t.Fatalf("Time = %v, want %v", entry.Time, wantTime)
	}
	if entry.Level != "WARN" || entry.Component != "repository" {
		t.Fatalf("Level/Component = %q/%q", entry.Level, entry.Component)
	}
	if entry.Message != "remote timed out, falling back to cache" {
		t.Fatalf("Message = %q", entry.Message)
	}
	wantAttrs := []Attr{{Key: "count", Value: "2"}, {Key: "remote_error", Value: `"GET http://x/albums: timeout"`}}
	if !reflect.DeepEqual(entry.Attrs, wantAttrs) {
		t.Fatalf("Attrs = %#v, want %#v", entry.Attrs, wantAttrs)
	}
}

func TestParse_PlainLineFallsBackToRaw(t *testing.T) {
	for _, line := range []string{"", "panic: boom", "{not json"} {
		entry, ok := Parse(line)
		if ok {
			t.Fatalf("Parse(%q) ok = true, want false", line)
		}
		if entry.String() != line {
			t.Fatalf("String() = %q, want raw %q", entry.String(), line)
		}
	}
}

func TestEntry_String(t *testing.T) {
	entry := Entry{
		Level:     "INFO",
		Component: "refresh",
		Message:   "refresh finished",
		Attrs:     []Attr{{Key: "op", Value: "refresh"}},
	}
	want := "INFO [refresh] – refresh finished op=refresh"
	if got := entry.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestColorizeLine(t *testing.T) {
	if got := ColorizeLine("plain text"); got != "plain text" {
		t.Fatalf("ColorizeLine(plain) = %q, want unchanged", got)
	}

	got := ColorizeLine(`{"level":"ERROR","msg":"refresh failed","component":"refresh","op":"refresh"}`)
	for _, part := range []string{"ERROR", "[refresh]", "refresh failed", "op=", "–"} {
		if !strings.Contains(got, part) {
			t.Fatalf("ColorizeLine = %q, missing %q", got, part)
		}
	}
}

func TestColorizeLines(t *testing.T) {
	input := []string{
		`{"level":"INFO","msg":"a"}`,
		"raw",
	}
	got := ColorizeLines(input)
	if len(got) != 2 {
		t.Fatalf("ColorizeLines returned %d lines, want 2", len(got))
	}
	if got[1] != "raw" {
		t.Fatalf("ColorizeLines()[1] = %q, want raw", got[1])
	}
}
