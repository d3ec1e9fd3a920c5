package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the albumsync settings.
type Config struct {
	BaseURL        string
	DBPath         string
	LogPath        string
	LogLevel       string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	IOWorkers      int
}

const (
	defaultConfigPath     = "~/.config/albumsync/config.toml"
	defaultBaseURL        = "https://jsonplaceholder.typicode.com/"
	defaultDBPath         = "~/.local/share/albumsync/albums.db"
	defaultLogPath        = "~/.local/state/albumsync/albumsync.log"
	defaultLogLevel       = "info"
	defaultPollInterval   = 5 * time.Minute
	defaultRequestTimeout = 10 * time.Second
	defaultIOWorkers      = 3
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		DBPath:         mustExpand(defaultDBPath),
		LogPath:        mustExpand(defaultLogPath),
		LogLevel:       defaultLogLevel,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		IOWorkers:      defaultIOWorkers,
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL             string `toml:"base_url"`
		DBPath              string `toml:"db_path"`
		LogPath             string `toml:"log_path"`
		LogLevel            string `toml:"log_level"`
		PollIntervalSeconds int    `toml:"poll_interval_seconds"`
		RequestTimeoutMS    int    `toml:"request_timeout_ms"`
		IOWorkers           int    `toml:"io_workers"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(raw.DBPath); v != "" {
		cfg.DBPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		if _, err := ParseLevel(v); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.LogLevel = v
	}
	if raw.PollIntervalSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalSeconds) * time.Second
	}
	if raw.RequestTimeoutMS > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutMS) * time.Millisecond
	}
	if raw.IOWorkers > 0 {
		cfg.IOWorkers = raw.IOWorkers
	}

	return cfg, nil
}

// Level returns the configured slog level, or info when unset or unknown.
func (c Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if trimmed == ":memory:" {
		return trimmed, nil
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
