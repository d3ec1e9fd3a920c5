// Package app is the composition root of albumsync.
//
// # Overview
//
// Build wires configuration, logging, the SQLite album store, the HTTP
// album client, the dispatch policy, the repository, the shared
// state.Store and the refresh Controller. Run adds the background poller
// and the TUI on top of a built Env. The one-shot CLI commands use Build
// directly and never start the poller.
//
// # Components
//
//   - app.go: Options, Env, Build, LoadConfig and Run
//   - logging.go: JSON slog logger writing to the log file
//   - poller.go: background refresh loop with exponential backoff
//
// # Data Flow
//
//	┌──────────────┐
//	│   Build()    │ Wire components
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()         Read config.toml, apply overrides
//	       ├─────> newLogger()           JSON logs to the log file
//	       ├─────> store.Open()          SQLite cache, migrations applied
//	       ├─────> remote.NewClient()    HTTP album client
//	       ├─────> dispatch.Standard()   IO pool, Default pool, serial Main
//	       ├─────> repository.New()      Outcome classification
//	       ├─────> state.Store{}         Snapshot observed by the UI
//	       └─────> refresh.New()         Publishes outcomes to the store
//
//	Run():
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> Controller.RefreshCacheFirst()     │
//	│  └─> Controller.Refresh() every tick    │
//	│      └─> state.Store publishes events   │
//	│          └─> ui forwards them to Tea    │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller first shows the cache, then refreshes at the configured
// interval (default 5 minutes). Timeouts and network loss are outcomes,
// not failures: they are shown in the UI and the interval stays the same.
// Unclassified errors (an undecodable body, a store failure) double the
// wait per consecutive failure, up to 30 minutes. A refresh that finds
// another one in flight is skipped.
//
// # Error Handling
//
// Fatal errors (returned from Build and Run):
//   - Invalid config file or log level
//   - Log file or database that cannot be opened
//   - Invalid base URL
//
// Recoverable errors (logged, polling continues):
//   - Unclassified refresh failures, counted in the snapshot
//
// # Configuration
//
// Options override the config file field by field; empty values keep the
// file's setting. LogWriter replaces the log file, which tests use to
// capture output.
package app
