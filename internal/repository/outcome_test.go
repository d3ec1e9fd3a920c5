package repository

import (
	"testing"

	"github.com/five82/albumsync/internal/album"
)

func TestOutcome_AccessorsPerKind(t *testing.T) {
	albums := []album.Album{{UserID: 1, ID: 2, Title: "x"}}

	s := Success(albums, true)
	if s.Kind() != KindSuccess || !s.FromCache() || s.StatusCode() != 0 || len(s.Albums()) != 1 {
		t.Fatalf("Success accessors wrong: %v", s)
	}
	if inv := Invalid(404); inv.Kind() != KindInvalid || inv.StatusCode() != 404 || inv.Albums() != nil || inv.FromCache() {
		t.Fatalf("Invalid accessors wrong: %v", inv)
	}
	if TimedOut().Kind() != KindTimedOut || NoNetwork().Kind() != KindNoNetwork {
		t.Fatalf("TimedOut/NoNetwork kinds wrong")
	}
}

func TestOutcome_IsImmutable(t *testing.T) {
	albums := []album.Album{{UserID: 1, ID: 2, Title: "x"}}
	s := Success(albums, false)

	albums[0].Title = "mutated source"
	got := s.Albums()
	got[0].Title = "mutated copy"

	if s.Albums()[0].Title != "x" {
		t.Fatalf("Outcome shares storage with caller: %q", s.Albums()[0].Title)
	}
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{Success(nil, false), "success(0 albums, from_cache=false)"},
		{TimedOut(), "timed_out"},
		{NoNetwork(), "no_network"},
		{Invalid(503), "invalid(503)"},
		{Outcome{}, "none"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestOutcome_ZeroValueIsNotSuccess(t *testing.T) {
	var o Outcome
	if o.Kind() == KindSuccess {
		t.Fatalf("zero Outcome has kind %v", o.Kind())
	}
	if o.Albums() != nil || o.FromCache() || o.StatusCode() != 0 {
		t.Fatalf("zero Outcome accessors = %v %t %d", o.Albums(), o.FromCache(), o.StatusCode())
	}
}
