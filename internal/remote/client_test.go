package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/five82/albumsync/internal/album"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("default = %q, want %q", u.String(), DefaultBaseURL)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"127.0.0.1:8080", "http://127.0.0.1:8080/"},
		{"https://example.com/api?x=1#frag", "https://example.com/api/"},
		{"  http://example.com/  ", "http://example.com/"},
	}
	for _, tt := range tests {
		u, err := parseBaseURL(tt.in)
		if err != nil {
			t.Fatalf("parseBaseURL(%q) returned error: %v", tt.in, err)
		}
		if u.String() != tt.want {
			t.Fatalf("parseBaseURL(%q) = %q, want %q", tt.in, u.String(), tt.want)
		}
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL without host returned nil error")
	}
}

func TestClient_FetchAlbumsSuccess(t *testing.T) {
	t.Parallel()

	var gotPath, gotUserAgent, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get(requestIDHeaderKey)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]NetworkAlbum{
			{UserID: 0, ID: 0, Title: "Album 1"},
			{UserID: 0, ID: 1, Title: "Album 2"},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/api")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	resp, err := c.FetchAlbums(context.Background())
	if err != nil {
		t.Fatalf("FetchAlbums returned error: %v", err)
	}
	if !resp.Successful || resp.StatusCode != http.StatusOK {
		t.Fatalf("response = %+v, want successful 200", resp)
	}
	want := []album.Album{{UserID: 0, ID: 0, Title: "Album 1"}, {UserID: 0, ID: 1, Title: "Album 2"}}
	if got := resp.Albums(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Albums() = %#v, want %#v", got, want)
	}
	if gotPath != "/api/albums" {
		t.Fatalf("path = %q, want /api/albums", gotPath)
	}
	if !strings.HasPrefix(gotUserAgent, "albumsync/") {
		t.Fatalf("User-Agent = %q, want albumsync/*", gotUserAgent)
	}
	if gotRequestID == "" {
		t.Fatalf("missing %s header", requestIDHeaderKey)
	}
}

func TestClient_EmptyBodyIsEmptyCollection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	resp, err := c.FetchAlbums(context.Background())
	if err != nil {
		t.Fatalf("FetchAlbums returned error: %v", err)
	}
	if !resp.Successful {
		t.Fatalf("response = %+v, want successful", resp)
	}
	if got := resp.Albums(); got == nil || len(got) != 0 {
		t.Fatalf("Albums() = %#v, want empty non-nil slice", got)
	}
}

func TestClient_NonSuccessStatusIsNotAnError(t *testing.T) {
	t.Parallel()

	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusNotModified} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", code)
		}))
		t.Cleanup(server.Close)

		c, err := NewClient(server.URL)
		if err != nil {
			t.Fatalf("NewClient returned error: %v", err)
		}
		resp, err := c.FetchAlbums(context.Background())
		if err != nil {
			t.Fatalf("FetchAlbums(%d) returned error: %v", code, err)
		}
		if resp.Successful || resp.StatusCode != code || resp.Body != nil {
			t.Fatalf("response = %+v, want unsuccessful %d without body", resp, code)
		}
	}
}

func TestClient_DecodeErrorIsUnclassified(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchAlbums(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchAlbums error = %v, want decode response error", err)
	}
	if IsTimeout(err) || IsConnectivity(err) {
		t.Fatalf("decode error classified as transport failure: %v", err)
	}
}

func TestClient_TimeoutIsClassified(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchAlbums(context.Background())
	if !IsTimeout(err) {
		t.Fatalf("FetchAlbums error = %v, want TimeoutError", err)
	}
	if IsConnectivity(err) {
		t.Fatalf("timeout also classified as connectivity: %v", err)
	}
}

func TestClient_ContextDeadlineIsTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(server.URL, WithTimeout(0))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	t.Cleanup(cancel)
	_, err = c.FetchAlbums(ctx)
	if !IsTimeout(err) {
		t.Fatalf("FetchAlbums error = %v, want TimeoutError", err)
	}
}

func TestClient_RefusedConnectionIsConnectivity(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchAlbums(context.Background())
	if !IsConnectivity(err) {
		t.Fatalf("FetchAlbums error = %v, want ConnectivityError", err)
	}
	if IsTimeout(err) {
		t.Fatalf("refused connection classified as timeout: %v", err)
	}
	var ce *ConnectivityError
	if !errors.As(err, &ce) || ce.Unwrap() == nil {
		t.Fatalf("ConnectivityError should wrap its cause: %v", err)
	}
}

func TestClient_CancelledContextIsUnclassified(t *testing.T) {
	t.Parallel()

	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.FetchAlbums(ctx)
	if err == nil {
		t.Fatalf("FetchAlbums returned nil error for cancelled context")
	}
	if IsTimeout(err) || IsConnectivity(err) {
		t.Fatalf("cancellation classified as transport failure: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("FetchAlbums error = %v, want context.Canceled", err)
	}
}

func TestFromAlbums_RoundTripsDomainValues(t *testing.T) {
	albums := []album.Album{{UserID: 3, ID: 9, Title: "x"}}
	resp := Response{Successful: true, Body: FromAlbums(albums)}
	if got := resp.Albums(); !reflect.DeepEqual(got, albums) {
		t.Fatalf("Albums() = %#v, want %#v", got, albums)
	}
}

type countingTransport struct {
	calls int
	next  http.RoundTripper
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls++
	return c.next.RoundTrip(r)
}

func TestClient_CustomHTTPClientAndUserAgent(t *testing.T) {
	t.Parallel()

	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(server.Close)

	transport := &countingTransport{next: http.DefaultTransport}
	c, err := NewClient(server.URL,
		WithHTTPClient(&http.Client{Transport: transport}),
		WithUserAgent("albumsync-test/1"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchAlbums(context.Background()); err != nil {
		t.Fatalf("FetchAlbums returned error: %v", err)
	}
	if transport.calls != 1 {
		t.Fatalf("transport calls = %d, want 1", transport.calls)
	}
	if gotUserAgent != "albumsync-test/1" {
		t.Fatalf("User-Agent = %q, want albumsync-test/1", gotUserAgent)
	}
}
