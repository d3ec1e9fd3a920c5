// Package state provides thread-safe state management for albumsync.
//
// # Overview
//
// The Store holds what the UI shows: the album list, whether a refresh is
// running, and the user-facing error code of the last refresh. The refresh
// controller writes to it; the UI and the CLI read snapshots or subscribe to
// change events.
//
// # Architecture
//
//	Producer (refresh.Controller):   Consumers (UI, CLI):
//	┌──────────────────────┐        ┌──────────────────────┐
//	│ SetLoading(true)     │        │ Subscribe(fn)        │
//	│ SetAlbums(...)       │───────→│   fn(Event)          │
//	│ SetError(code)       │ (mutex)│ Snapshot()           │
//	│ SetLoading(false)    │        │   render             │
//	└──────────────────────┘        └──────────────────────┘
//
// The controller publishes from a single serial executor, so subscribers see
// events one at a time and in publication order. Subscribers run on that
// goroutine and must not block; the TUI forwards events to its program with
// tea.Program.Send.
//
// # Core Types
//
// Store:
//   - Zero value is ready to use
//   - sync.RWMutex guards the snapshot and subscriber list
//   - Subscribers are called after the lock is released
//
// Snapshot:
//   - Albums, FromCache, Loading, Error
//   - LastError and ConsecutiveFailures for failures outside the error codes
//   - Returned by value with cloned slices
//
// Event:
//   - Kind names the field that changed (loading, albums, error, failure)
//   - Snapshot is the full state right after the change
//
// # Update Semantics
//
//	SetLoading(b)      → Loading = b
//	SetAlbums(a, c)    → Albums = a, FromCache = c, failures reset;
//	                     Error cleared when c is false
//	SetError(code)     → Error = code, Albums unchanged
//	RecordFailure(err) → LastError = err, ConsecutiveFailures++
//
// # Error Codes
//
// ErrorCode is the closed set shown to the user: CachedData, NoInternet,
// ClientProblem, ServerProblem and UnknownProblem. Message returns the text
// for each; ErrorNone has none.
package state
