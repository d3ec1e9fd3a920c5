package repository

import (
	"fmt"

	"github.com/five82/albumsync/internal/album"
)

// Kind tags the variant held by an Outcome. The zero Kind belongs to the
// zero Outcome returned alongside errors and matches no variant.
type Kind int

const (
	kindNone Kind = iota
	KindSuccess
	KindTimedOut
	KindNoNetwork
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case kindNone:
		return "none"
	case KindSuccess:
		return "success"
	case KindTimedOut:
		return "timed_out"
	case KindNoNetwork:
		return "no_network"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the closed result of a fetch: exactly one of Success, TimedOut,
// NoNetwork or Invalid. Values are immutable; build them with the
// constructors below.
type Outcome struct {
	kind       Kind
	albums     []album.Album
	fromCache  bool
	statusCode int
}

// Success holds albums and whether they came from the local store.
func Success(albums []album.Album, fromCache bool) Outcome {
	items := album.Clone(albums)
	if items == nil {
		items = []album.Album{}
	}
	return Outcome{kind: KindSuccess, albums: items, fromCache: fromCache}
}

// TimedOut reports a timeout with no cached data to fall back on.
func TimedOut() Outcome { return Outcome{kind: KindTimedOut} }

// NoNetwork reports a connectivity failure other than a timeout.
func NoNetwork() Outcome { return Outcome{kind: KindNoNetwork} }

// Invalid reports a response the server rejected with statusCode.
func Invalid(statusCode int) Outcome { return Outcome{kind: KindInvalid, statusCode: statusCode} }

// Kind returns the variant tag.
func (o Outcome) Kind() Kind { return o.kind }

// Albums returns a copy of the albums of a Success; nil for other kinds.
func (o Outcome) Albums() []album.Album {
	if o.kind != KindSuccess {
		return nil
	}
	out := make([]album.Album, len(o.albums))
	copy(out, o.albums)
	return out
}

// FromCache reports whether a Success was served from the local store.
func (o Outcome) FromCache() bool { return o.kind == KindSuccess && o.fromCache }

// StatusCode returns the rejected status of an Invalid; zero otherwise.
func (o Outcome) StatusCode() int {
	if o.kind != KindInvalid {
		return 0
	}
	return o.statusCode
}

func (o Outcome) String() string {
	switch o.kind {
	case KindSuccess:
		return fmt.Sprintf("success(%d albums, from_cache=%t)", len(o.albums), o.fromCache)
	case KindInvalid:
		return fmt.Sprintf("invalid(%d)", o.statusCode)
	default:
		return o.kind.String()
	}
}
