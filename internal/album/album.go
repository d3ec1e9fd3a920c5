// Package album defines the Album value shared by the remote client, the
// local store and the UI.
package album

import "strings"

// Album is a titled item belonging to an owner. The ID is assigned by the
// remote catalogue and is never generated locally.
type Album struct {
	UserID int
	ID     int
	Title  string
}

// Clone returns an independent copy of albums. A nil or empty input yields nil.
func Clone(albums []Album) []Album {
	if len(albums) == 0 {
		return nil
	}
	dup := make([]Album, len(albums))
	copy(dup, albums)
	return dup
}

// Titles returns the titles of albums in order.
func Titles(albums []Album) []string {
	out := make([]string, 0, len(albums))
	for _, a := range albums {
		out = append(out, a.Title)
	}
	return out
}

// Filter returns the albums whose title contains query, ignoring case.
func Filter(albums []Album, query string) []Album {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Clone(albums)
	}
	var out []Album
	for _, a := range albums {
		if strings.Contains(strings.ToLower(a.Title), query) {
			out = append(out, a)
		}
	}
	return out
}
