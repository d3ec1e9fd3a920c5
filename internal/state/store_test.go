package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/albumsync/internal/album"
)

func TestStore_SetAlbumsAndSnapshotClone(t *testing.T) {
	var s Store

	albums := []album.Album{{UserID: 1, ID: 1, Title: "a"}, {UserID: 1, ID: 2, Title: "b"}}

	before := time.Now()
	s.SetAlbums(albums, false)

	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Albums, albums) {
		t.Fatalf("snapshot albums = %#v, want %#v", snap.Albums, albums)
	}
	if snap.FromCache {
		t.Fatalf("FromCache = true, want false")
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Albums[0].Title = "changed"
	albums[1].Title = "changed"
	snap2 := s.Snapshot()
	if snap2.Albums[0].Title != "a" || snap2.Albums[1].Title != "b" {
		t.Fatalf("Snapshot should clone albums; got %#v", snap2.Albums)
	}
}

func TestStore_SetErrorKeepsAlbums(t *testing.T) {
	var s Store

	s.SetAlbums([]album.Album{{ID: 1, Title: "a"}}, false)
	s.SetError(ClientProblem)

	snap := s.Snapshot()
	if snap.Error != ClientProblem {
		t.Fatalf("Error = %v, want %v", snap.Error, ClientProblem)
	}
	if len(snap.Albums) != 1 || snap.Albums[0].ID != 1 {
		t.Fatalf("albums changed on error: %#v", snap.Albums)
	}
}

func TestStore_FreshAlbumsClearError(t *testing.T) {
	var s Store

	s.SetAlbums([]album.Album{{ID: 1}}, true)
	s.SetError(CachedData)
	s.SetAlbums([]album.Album{{ID: 1}}, true)
	if got := s.Snapshot().Error; got != CachedData {
		t.Fatalf("cached albums cleared error: got %v", got)
	}

	s.SetAlbums([]album.Album{{ID: 2}}, false)
	if got := s.Snapshot().Error; got != ErrorNone {
		t.Fatalf("Error = %v after fresh albums, want none", got)
	}
}

func TestStore_RecordFailureKeepsPreviousData(t *testing.T) {
	var s Store

	s.SetAlbums([]album.Album{{ID: 1}}, false)
	origErr := errors.New("boom")
	s.RecordFailure(origErr)

	snap := s.Snapshot()
	if len(snap.Albums) != 1 {
		t.Fatalf("albums changed on failure: %#v", snap.Albums)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the recorded error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.RecordFailure(errors.New("fail 1"))
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.RecordFailure(errors.New("fail 2"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.SetAlbums(nil, false)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.SetError(NoInternet)
	if !s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = false, want true with NoInternet")
	}
}

func TestStore_SubscribersReceiveEventsInOrder(t *testing.T) {
	var s Store

	var got []EventKind
	var loading []bool
	unsubscribe := s.Subscribe(func(ev Event) {
		got = append(got, ev.Kind)
		loading = append(loading, ev.Snapshot.Loading)
	})

	s.SetLoading(true)
	s.SetAlbums([]album.Album{{ID: 1}}, true)
	s.SetError(CachedData)
	s.SetLoading(false)

	want := []EventKind{EventLoading, EventAlbums, EventError, EventLoading}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(loading, []bool{true, true, true, false}) {
		t.Fatalf("loading per event = %v", loading)
	}

	unsubscribe()
	unsubscribe()
	s.SetLoading(true)
	if len(got) != len(want) {
		t.Fatalf("received event after unsubscribe: %v", got)
	}
}

func TestStore_EventSnapshotIsIndependent(t *testing.T) {
	var s Store

	s.Subscribe(func(ev Event) {
		if len(ev.Snapshot.Albums) > 0 {
			ev.Snapshot.Albums[0].Title = "mutated by subscriber"
		}
	})
	s.SetAlbums([]album.Album{{ID: 1, Title: "a"}}, false)

	if got := s.Snapshot().Albums[0].Title; got != "a" {
		t.Fatalf("subscriber mutated store: %q", got)
	}
}

func TestStore_UnsubscribeLeavesOthers(t *testing.T) {
	var s Store

	var a, b int
	unsubA := s.Subscribe(func(Event) { a++ })
	s.Subscribe(func(Event) { b++ })

	s.SetLoading(true)
	unsubA()
	s.SetLoading(false)

	if a != 1 || b != 2 {
		t.Fatalf("deliveries a=%d b=%d, want 1 and 2", a, b)
	}
}

func TestErrorCode_Message(t *testing.T) {
	if ErrorNone.Message() != "" {
		t.Fatalf("ErrorNone.Message() = %q, want empty", ErrorNone.Message())
	}
	for _, c := range []ErrorCode{CachedData, NoInternet, ClientProblem, ServerProblem, UnknownProblem} {
		if c.Message() == "" {
			t.Fatalf("%v has no message", c)
		}
	}
}
