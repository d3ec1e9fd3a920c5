// Package refresh turns repository outcomes into the state the UI observes.
//
// Every operation publishes Loading=true first and Loading=false last, on
// the policy's Main executor. The final publication happens in a deferred
// call detached from the caller's cancellation, so it is also emitted when
// the fetch fails, panics or is cancelled.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/five82/albumsync/internal/album"
	"github.com/five82/albumsync/internal/dispatch"
	"github.com/five82/albumsync/internal/repository"
	"github.com/five82/albumsync/internal/state"
)

// ErrInFlight is returned when an operation is started while another one
// is still running on the same Controller. Nothing is published.
var ErrInFlight = errors.New("refresh: already in flight")

// Fetcher is the part of *repository.Repository the controller drives.
type Fetcher interface {
	Fetch(ctx context.Context) (repository.Outcome, error)
	FetchCacheFirst(ctx context.Context) (repository.Outcome, error)
	FetchByOwners(ctx context.Context, ownerIDs []int) (repository.Outcome, error)
}

// Publisher receives state changes. *state.Store implements it.
type Publisher interface {
	SetLoading(loading bool)
	SetAlbums(albums []album.Album, fromCache bool)
	SetError(code state.ErrorCode)
	RecordFailure(err error)
}

// Controller runs at most one fetch at a time and publishes its result.
type Controller struct {
	repo     Fetcher
	pub      Publisher
	main     dispatch.Executor
	logger   *slog.Logger
	inFlight atomic.Bool
}

// New creates a Controller. A nil logger uses slog.Default().
func New(repo Fetcher, pub Publisher, policy dispatch.Policy, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		repo:   repo,
		pub:    pub,
		main:   policy.Main(),
		logger: logger.With("component", "refresh"),
	}
}

// Refresh fetches from the remote source, falling back to the cache on a
// timeout. The returned error is non-nil only for failures outside the
// outcome taxonomy and for ErrInFlight.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.run(ctx, "refresh", c.repo.Fetch)
}

// RefreshCacheFirst shows the cached albums when there are any and fetches
// otherwise.
func (c *Controller) RefreshCacheFirst(ctx context.Context) error {
	return c.run(ctx, "refresh_cache_first", c.repo.FetchCacheFirst)
}

// ShowOwners shows the cached albums of the given owners, in order.
func (c *Controller) ShowOwners(ctx context.Context, ownerIDs []int) error {
	ids := append([]int(nil), ownerIDs...)
	return c.run(ctx, "owners", func(ctx context.Context) (repository.Outcome, error) {
		return c.repo.FetchByOwners(ctx, ids)
	})
}

// InFlight reports whether an operation is running.
func (c *Controller) InFlight() bool {
	return c.inFlight.Load()
}

func (c *Controller) run(ctx context.Context, op string, fetch func(context.Context) (repository.Outcome, error)) (err error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.DebugContext(ctx, "refresh dropped, already in flight", "op", op)
		return ErrInFlight
	}
	defer c.inFlight.Store(false)

	// Loading=false must follow Loading=true whenever the latter ran, even
	// if the executor reports the caller's cancellation.
	detached := context.WithoutCancel(ctx)
	var loading atomic.Bool
	defer func() {
		if !loading.Load() {
			return
		}
		perr := c.publish(detached, func() { c.pub.SetLoading(false) })
		if err == nil {
			err = perr
		}
	}()
	if err := c.publish(ctx, func() {
		loading.Store(true)
		c.pub.SetLoading(true)
	}); err != nil {
		return err
	}

	start := time.Now()
	outcome, err := fetch(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "refresh failed", "op", op, "error", err)
		failure := err
		if perr := c.publish(detached, func() { c.pub.RecordFailure(failure) }); perr != nil {
			c.logger.WarnContext(ctx, "publish failure", "error", perr)
		}
		return err
	}

	c.logger.InfoContext(ctx, "refresh finished",
		"op", op,
		"outcome", outcome.String(),
		"duration_ms", time.Since(start).Milliseconds())

	return c.publish(detached, func() { c.apply(outcome) })
}

func (c *Controller) apply(outcome repository.Outcome) {
	switch outcome.Kind() {
	case repository.KindSuccess:
		c.pub.SetAlbums(outcome.Albums(), outcome.FromCache())
		if outcome.FromCache() {
			c.pub.SetError(state.CachedData)
		}
	case repository.KindTimedOut, repository.KindNoNetwork:
		c.pub.SetError(state.NoInternet)
	case repository.KindInvalid:
		c.pub.SetError(CodeForStatus(outcome.StatusCode()))
	}
}

func (c *Controller) publish(ctx context.Context, fn func()) error {
	return c.main.Do(ctx, func(context.Context) { fn() })
}

// CodeForStatus maps a rejected HTTP status to the error code shown to the
// user.
func CodeForStatus(status int) state.ErrorCode {
	switch {
	case status >= 400 && status <= 499:
		return state.ClientProblem
	case status >= 500 && status <= 599:
		return state.ServerProblem
	default:
		return state.UnknownProblem
	}
}
