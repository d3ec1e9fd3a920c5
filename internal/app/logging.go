package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/five82/albumsync/internal/config"
)

// newLogger returns a JSON slog logger writing to w, or to the configured
// log file when w is nil. The TUI owns stdout, so logs never go there.
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, func() error, error) {
	closeFn := func() error { return nil }
	if w == nil {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.Level()})
	return slog.New(handler), closeFn, nil
}
