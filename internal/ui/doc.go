// Package ui provides the albumsync terminal interface.
//
// The UI is a Bubble Tea program with a single screen: a header showing the
// sync status, a command bar, the album table and a status line. It never
// fetches anything itself. Key presses call the refresh Controller on a
// command goroutine, and every change the controller publishes to the
// state.Store is forwarded to the program with Program.Send, so the table
// redraws as soon as albums, the loading flag or an error code change.
//
// # Files
//
//   - app.go: Model, Update loop, prompts and Run
//   - header.go: header, command bar and status line rendering
//   - help.go: help overlay generated from the key map
//   - keys.go: key bindings
//   - theme.go: color themes and lipgloss styles
//
// # Key Bindings
//
//	r        Refresh from the server, falling back to the cache on timeout
//	c        Show the cache, fetching only when it is empty
//	o        Prompt for owner ids and show their cached albums
//	/        Filter the table by title; x or esc clears the filter
//	j/k g/G  Move the selection
//	T        Cycle theme (saved to prefs)
//	h/?      Toggle help
//	q        Quit
//
// # Status
//
// The header badge reflects the snapshot: Loading while a fetch runs, the
// error code name (Cached Data, No Internet, Client Problem, ...) when one
// is set, and Fresh after a successful refresh. OFFLINE appears when the
// last refreshes failed repeatedly or the network is unreachable.
package ui
