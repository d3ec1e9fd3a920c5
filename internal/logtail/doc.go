// Package logtail reads and formats the albumsync log file.
//
// # Overview
//
// albumsync writes its log as JSON lines through log/slog, because the TUI
// owns the terminal. This package reads the last N lines of that file and
// turns them back into something a person can read, either as plain text
// for `albumsync logs` or colorized with lipgloss for a terminal.
//
// # Reading Log Files
//
// Read uses a ring buffer to extract the last maxLines from a file in one
// sequential pass, using O(maxLines) memory. A non-positive maxLines returns
// the whole file. A missing file is not an error.
//
//	lines, err := logtail.Read(cfg.LogPath, 50)
//
// # Parsing
//
// Parse decodes one JSON slog line into an Entry. The time, level, msg and
// component keys become fields; every other key becomes an Attr, sorted by
// key. Lines that are not JSON (a panic trace, a truncated write) are kept as
// Raw and printed unchanged.
//
// Entry.String renders the flat form:
//
//	2025-10-08 21:01:05 WARN [repository] – remote timed out, falling back to cache count=2
package logtail
