// Package twin serves a fake album API compatible with the remote catalogue.
//
// It is used by `albumsync twin` for offline development and by end-to-end
// tests. Latency and the response status can be changed at runtime through
// the admin routes to reproduce timeouts and rejected requests.
package twin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/five82/albumsync/internal/album"
	"github.com/five82/albumsync/internal/remote"
)

// Fault alters how GET /albums answers.
type Fault struct {
	Delay  time.Duration
	Status int // 0 or 2xx serves albums
}

// Server is the fake album API.
type Server struct {
	mu     sync.RWMutex
	albums []album.Album
	fault  Fault
	hits   int

	router chi.Router
	logger *slog.Logger
}

// New creates a Server serving albums. A nil logger uses slog.Default().
func New(albums []album.Album, fault Fault, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		albums: album.Clone(albums),
		fault:  fault,
		logger: logger.With("component", "twin"),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLog)
	r.Get("/albums", s.listAlbums)
	r.Route("/admin", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Put("/albums", s.replaceAlbums)
		r.Put("/fault", s.setFault)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler so the twin can be used directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetAlbums replaces the served catalogue.
func (s *Server) SetAlbums(albums []album.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.albums = album.Clone(albums)
}

// SetFault changes the latency and status of GET /albums.
func (s *Server) SetFault(f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

// Hits returns how many times GET /albums was requested.
func (s *Server) Hits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting twin", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down twin")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) listAlbums(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits++
	fault := s.fault
	albums := album.Clone(s.albums)
	s.mu.Unlock()

	if fault.Delay > 0 {
		timer := time.NewTimer(fault.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
	}

	if fault.Status != 0 && (fault.Status < 200 || fault.Status > 299) {
		writeError(w, fault.Status, "injected failure")
		return
	}

	if v := r.URL.Query().Get("userId"); v != "" {
		owner, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "userId must be an integer")
			return
		}
		var filtered []album.Album
		for _, a := range albums {
			if a.UserID == owner {
				filtered = append(filtered, a)
			}
		}
		albums = filtered
	}

	status := http.StatusOK
	if fault.Status != 0 {
		status = fault.Status
	}
	writeJSON(w, status, remote.FromAlbums(albums))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"albums": len(s.albums),
		"hits":   s.hits,
		"delay":  s.fault.Delay.String(),
		"fault":  s.fault.Status,
	})
}

func (s *Server) replaceAlbums(w http.ResponseWriter, r *http.Request) {
	var body []remote.NetworkAlbum
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid album list: "+err.Error())
		return
	}
	resp := remote.Response{Successful: true, Body: body}
	s.SetAlbums(resp.Albums())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setFault(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Delay  string `json:"delay"`
		Status int    `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid fault: "+err.Error())
		return
	}
	var f Fault
	if body.Delay != "" {
		d, err := time.ParseDuration(body.Delay)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "delay must be a non-negative duration")
			return
		}
		f.Delay = d
	}
	if body.Status != 0 && (body.Status < 100 || body.Status > 599) {
		writeError(w, http.StatusBadRequest, "status must be between 100 and 599")
		return
	}
	f.Status = body.Status
	s.SetFault(f)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
			"duration_ms", time.Since(start).Milliseconds())
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    http.StatusText(status),
			"code":    status,
		},
	})
}
