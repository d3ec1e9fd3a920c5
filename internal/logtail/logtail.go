package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Attr is one extra key/value of a structured log line.
type Attr struct {
	Key   string
	Value string
}

// Entry is a parsed log line written by the JSON slog handler.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	Attrs     []Attr
	Raw       string
}

// Parse decodes a JSON slog line. Lines that are not JSON objects come back
// with only Raw set and ok=false.
func Parse(line string) (entry Entry, ok bool) {
	entry.Raw = line
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return entry, false
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return entry, false
	}

	if v, ok := fields["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			entry.Time = t
		}
	}
	entry.Level, _ = fields["level"].(string)
	entry.Message, _ = fields["msg"].(string)
	entry.Component, _ = fields["component"].(string)
	delete(fields, "time")
	delete(fields, "level")
	delete(fields, "msg")
	delete(fields, "component")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entry.Attrs = append(entry.Attrs, Attr{Key: k, Value: formatValue(fields[k])})
	}
	return entry, true
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case nil:
		return "null"
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// String renders the entry as a single plain line:
//
//	2025-10-08 21:01:05 INFO [refresh] – refresh finished op=refresh
func (e Entry) String() string {
	if e.Level == "" && e.Message == "" {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format(time.DateTime))
		b.WriteByte(' ')
	}
	b.WriteString(e.Level)
	if e.Component != "" {
		b.WriteString(" [" + e.Component + "]")
	}
	b.WriteString(" – ")
	b.WriteString(e.Message)
	for _, a := range e.Attrs {
		b.WriteString(" " + a.Key + "=" + a.Value)
	}
	return b.String()
}

var (
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	componentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF"))
	sepStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	attrKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AFFF"))
	levelStyles    = map[string]lipgloss.Style{
		"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")),
		"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
)

// ColorizeLine parses line and renders it with terminal colors. Lines that
// are not structured are returned unchanged.
func ColorizeLine(line string) string {
	entry, ok := Parse(line)
	if !ok {
		return line
	}
	var parts []string
	if !entry.Time.IsZero() {
		parts = append(parts, timeStyle.Render(entry.Time.Local().Format(time.DateTime)))
	}
	level := entry.Level
	if style, found := levelStyles[strings.ToUpper(level)]; found {
		level = style.Render(level)
	}
	parts = append(parts, level)
	if entry.Component != "" {
		parts = append(parts, componentStyle.Render("["+entry.Component+"]"))
	}
	parts = append(parts, sepStyle.Render("–"), entry.Message)
	for _, a := range entry.Attrs {
		parts = append(parts, attrKeyStyle.Render(a.Key+"=")+a.Value)
	}
	return strings.Join(parts, " ")
}

// ColorizeLines applies ColorizeLine to every line.
func ColorizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ColorizeLine(line)
	}
	return out
}
