package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/albumsync/internal/album"
)

// ErrorCode is the user-facing problem reported after a refresh. The zero
// value means no problem.
type ErrorCode int

const (
	ErrorNone ErrorCode = iota
	CachedData
	NoInternet
	ClientProblem
	ServerProblem
	UnknownProblem
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorNone:
		return "none"
	case CachedData:
		return "cached_data"
	case NoInternet:
		return "no_internet"
	case ClientProblem:
		return "client_problem"
	case ServerProblem:
		return "server_problem"
	case UnknownProblem:
		return "unknown_problem"
	default:
		return fmt.Sprintf("error_code(%d)", int(c))
	}
}

// Message returns the text shown to the user.
func (c ErrorCode) Message() string {
	switch c {
	case CachedData:
		return "Showing albums from the local cache."
	case NoInternet:
		return "No internet connection."
	case ClientProblem:
		return "The request was rejected. Check the configured base URL."
	case ServerProblem:
		return "The album server is having problems. Try again later."
	case UnknownProblem:
		return "Unexpected response from the album server."
	default:
		return ""
	}
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Albums              []album.Album
	FromCache           bool
	Loading             bool
	Error               ErrorCode
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive unclassified refresh failures
}

// IsOffline returns true when refreshes have failed several times in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2 || s.Error == NoInternet
}

// EventKind identifies which part of the snapshot an Event announces.
type EventKind int

const (
	EventLoading EventKind = iota
	EventAlbums
	EventError
	EventFailure
)

func (k EventKind) String() string {
	switch k {
	case EventLoading:
		return "loading"
	case EventAlbums:
		return "albums"
	case EventError:
		return "error"
	case EventFailure:
		return "failure"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is delivered to subscribers after every change. Snapshot is the
// state right after the change.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
}

type subscriber struct {
	id int
	fn func(Event)
}

// Store coordinates concurrent updates to the snapshot. The zero value is
// ready to use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	subs     []subscriber
	nextID   int
	now      func() time.Time
}

// Subscribe registers fn to receive every subsequent Event, in publication
// order, on the goroutine that published it. The returned function removes
// the subscription.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// SetLoading records whether a refresh is running.
func (s *Store) SetLoading(loading bool) {
	s.publish(EventLoading, func(snap *Snapshot) {
		snap.Loading = loading
	})
}

// SetAlbums replaces the displayed albums. Fresh albums clear any previous
// error code and failure streak.
func (s *Store) SetAlbums(albums []album.Album, fromCache bool) {
	s.publish(EventAlbums, func(snap *Snapshot) {
		snap.Albums = album.Clone(albums)
		snap.FromCache = fromCache
		snap.LastError = nil
		snap.ConsecutiveFailures = 0
		if !fromCache {
			snap.Error = ErrorNone
		}
		snap.LastUpdated = s.clock()
	})
}

// SetError records a user-facing problem. Albums are left unchanged.
func (s *Store) SetError(code ErrorCode) {
	s.publish(EventError, func(snap *Snapshot) {
		snap.Error = code
		snap.LastUpdated = s.clock()
	})
}

// RecordFailure records a refresh that failed outside the error code
// taxonomy. The previous data is kept.
func (s *Store) RecordFailure(err error) {
	s.publish(EventFailure, func(snap *Snapshot) {
		snap.LastError = err
		snap.ConsecutiveFailures++
		snap.LastUpdated = s.clock()
	})
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

func (s *Store) publish(kind EventKind, mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.snapshot)
	snap := s.cloneLocked()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		ev := Event{Kind: kind, Snapshot: snap}
		ev.Snapshot.Albums = album.Clone(snap.Albums)
		sub.fn(ev)
	}
}

func (s *Store) cloneLocked() Snapshot {
	snap := s.snapshot
	snap.Albums = album.Clone(s.snapshot.Albums)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
