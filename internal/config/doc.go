// Package config handles loading and parsing the albumsync configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/albumsync/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing, empty or non-positive, use defaults
//
// Environment variables and command-line flags are layered on top by the
// albumsync command, not here.
//
// # Default Values
//
//   - Config file: ~/.config/albumsync/config.toml
//   - Remote base URL: https://jsonplaceholder.typicode.com/
//   - Database: ~/.local/share/albumsync/albums.db
//   - Log file: ~/.local/state/albumsync/albumsync.log
//   - Log level: info
//   - Poll interval: 5 minutes
//   - Request timeout: 10 seconds
//   - IO workers: 3
//
// # TOML Format
//
//	base_url = "http://127.0.0.1:8089/"
//	db_path = "~/.local/share/albumsync/albums.db"
//	log_path = "~/.local/state/albumsync/albumsync.log"
//	log_level = "debug"
//	poll_interval_seconds = 300
//	request_timeout_ms = 10000
//	io_workers = 3
//
// All fields are optional. Tilde expansion is performed on db_path and
// log_path; ":memory:" is accepted as a database path and left untouched.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and unknown log levels
//
// Missing config files are NOT an error. albumsync works out of the box
// against the public album API without any configuration.
package config
