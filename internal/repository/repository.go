// Package repository combines the remote album catalogue and the local
// SQLite copy into a single fetch operation with a closed set of outcomes.
//
// A timeout is the only failure that falls back to the local copy. A
// connectivity failure is reported as NoNetwork straight away, without
// reading the store.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/five82/albumsync/internal/album"
	"github.com/five82/albumsync/internal/dispatch"
	"github.com/five82/albumsync/internal/remote"
)

// AlbumSource fetches the full album collection. Errors wrapping
// remote.TimeoutError or remote.ConnectivityError are classified; any other
// error is returned to the caller.
type AlbumSource interface {
	FetchAlbums(ctx context.Context) (remote.Response, error)
}

// AlbumStore is the local persisted copy.
type AlbumStore interface {
	AlbumsSorted(ctx context.Context) ([]album.Album, error)
	ReplaceAll(ctx context.Context, albums []album.Album) error
	AlbumsByOwner(ctx context.Context, userID int) ([]album.Album, error)
}

// Repository implements the fetch operations. It holds no mutable state and
// is safe for concurrent use when its collaborators are.
type Repository struct {
	source   AlbumSource
	store    AlbumStore
	dispatch dispatch.Policy
	logger   *slog.Logger
}

// New creates a Repository. A nil logger uses slog.Default().
func New(source AlbumSource, store AlbumStore, policy dispatch.Policy, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		source:   source,
		store:    store,
		dispatch: policy,
		logger:   logger.With("component", "repository"),
	}
}

// Fetch retrieves albums from the remote source and persists them. On a
// timeout it serves the local copy when one exists.
func (r *Repository) Fetch(ctx context.Context) (Outcome, error) {
	return dispatch.Call(ctx, r.dispatch.IO(), func(ctx context.Context) (Outcome, error) {
		return r.fetchRemote(ctx, true)
	})
}

// FetchCacheFirst serves the local copy when it is non-empty and otherwise
// fetches remotely. A remote timeout yields TimedOut directly since the
// store is already known to be empty.
func (r *Repository) FetchCacheFirst(ctx context.Context) (Outcome, error) {
	return dispatch.Call(ctx, r.dispatch.IO(), func(ctx context.Context) (Outcome, error) {
		cached, err := r.store.AlbumsSorted(ctx)
		if err != nil {
			return Outcome{}, fmt.Errorf("read cached albums: %w", err)
		}
		if len(cached) > 0 {
			r.logger.DebugContext(ctx, "serving cached albums", "count", len(cached))
			return Success(cached, true), nil
		}
		return r.fetchRemote(ctx, false)
	})
}

// FetchByOwners concatenates the cached albums of each owner in the order
// the ids are given. Duplicate ids produce duplicate entries. The remote
// source is never contacted.
func (r *Repository) FetchByOwners(ctx context.Context, ownerIDs []int) (Outcome, error) {
	return dispatch.Call(ctx, r.dispatch.Default(), func(ctx context.Context) (Outcome, error) {
		var out []album.Album
		for _, id := range ownerIDs {
			albums, err := r.store.AlbumsByOwner(ctx, id)
			if err != nil {
				return Outcome{}, fmt.Errorf("read albums for owner %d: %w", id, err)
			}
			out = append(out, albums...)
		}
		return Success(out, true), nil
	})
}

func (r *Repository) fetchRemote(ctx context.Context, fallback bool) (Outcome, error) {
	resp, err := r.source.FetchAlbums(ctx)
	switch {
	case err == nil:
	case remote.IsTimeout(err):
		if !fallback {
			r.logger.InfoContext(ctx, "remote timed out", "error", err)
			return TimedOut(), nil
		}
		return r.fallbackToCache(ctx, err)
	case remote.IsConnectivity(err):
		r.logger.InfoContext(ctx, "remote unreachable", "error", err)
		return NoNetwork(), nil
	default:
		return Outcome{}, fmt.Errorf("fetch albums: %w", err)
	}

	if !resp.Successful {
		r.logger.InfoContext(ctx, "remote rejected request", "status", resp.StatusCode)
		return Invalid(resp.StatusCode), nil
	}

	albums := resp.Albums()
	if err := r.store.ReplaceAll(ctx, albums); err != nil {
		return Outcome{}, fmt.Errorf("persist albums: %w", err)
	}
	r.logger.DebugContext(ctx, "albums refreshed", "count", len(albums))
	return Success(albums, false), nil
}

func (r *Repository) fallbackToCache(ctx context.Context, remoteErr error) (Outcome, error) {
	cached, err := r.store.AlbumsSorted(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("read cached albums: %w", err)
	}
	if len(cached) == 0 {
		r.logger.InfoContext(ctx, "remote timed out with empty cache", "error", remoteErr)
		return TimedOut(), nil
	}
	r.logger.WarnContext(ctx, "remote timed out, falling back to cache",
		"remote_error", remoteErr,
		"count", len(cached))
	return Success(cached, true), nil
}
