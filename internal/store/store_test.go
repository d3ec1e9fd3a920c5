package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/five82/albumsync/internal/album"
)

func TestMigrate_CreatesTablesAndIsIdempotent(t *testing.T) {
	s := OpenMemory(t)

	for _, table := range []string{"albums", "sync_log", "schema_version"} {
		var name string
		err := s.DB.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
	if err := Migrate(s.DB); err != nil {
		t.Fatalf("second Migrate returned error: %v", err)
	}
	v, err := SchemaVersion(s.DB)
	if err != nil {
		t.Fatalf("SchemaVersion returned error: %v", err)
	}
	if v != 2 {
		t.Fatalf("SchemaVersion = %d, want 2", v)
	}
}

func TestReplaceAll_FullReplace(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()

	first := []album.Album{
		{UserID: 1, ID: 1, Title: "b"},
		{UserID: 1, ID: 2, Title: "a"},
		{UserID: 2, ID: 3, Title: "c"},
	}
	if err := s.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("ReplaceAll returned error: %v", err)
	}

	second := []album.Album{{UserID: 5, ID: 2, Title: "z"}}
	if err := s.ReplaceAll(ctx, second); err != nil {
		t.Fatalf("ReplaceAll returned error: %v", err)
	}

	got, err := s.AlbumsSorted(ctx)
	if err != nil {
		t.Fatalf("AlbumsSorted returned error: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("AlbumsSorted = %#v, want %#v", got, second)
	}
}

func TestReplaceAll_DuplicateIDLastWriteWins(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()

	if err := s.ReplaceAll(ctx, []album.Album{
		{UserID: 1, ID: 7, Title: "old"},
		{UserID: 2, ID: 7, Title: "new"},
	}); err != nil {
		t.Fatalf("ReplaceAll returned error: %v", err)
	}
	got, err := s.AlbumsSorted(ctx)
	if err != nil {
		t.Fatalf("AlbumsSorted returned error: %v", err)
	}
	want := []album.Album{{UserID: 2, ID: 7, Title: "new"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AlbumsSorted = %#v, want %#v", got, want)
	}
}

func TestAlbumsSorted_OrdersByTitle(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()

	if err := s.ReplaceAll(ctx, []album.Album{
		{UserID: 0, ID: 1, Title: "Album 2"},
		{UserID: 0, ID: 0, Title: "Album 1"},
		{UserID: 3, ID: 2, Title: "Aardvark"},
	}); err != nil {
		t.Fatalf("ReplaceAll returned error: %v", err)
	}
	got, err := s.AlbumsSorted(ctx)
	if err != nil {
		t.Fatalf("AlbumsSorted returned error: %v", err)
	}
	want := []string{"Aardvark", "Album 1", "Album 2"}
	if titles := album.Titles(got); !reflect.DeepEqual(titles, want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
}

func TestAlbumsSorted_EmptyStore(t *testing.T) {
	s := OpenMemory(t)
	got, err := s.AlbumsSorted(context.Background())
	if err != nil {
		t.Fatalf("AlbumsSorted returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("AlbumsSorted = %#v, want empty", got)
	}
}

func TestAlbumsByOwner(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()

	if err := s.ReplaceAll(ctx, []album.Album{
		{UserID: 1, ID: 4, Title: "d"},
		{UserID: 2, ID: 2, Title: "b"},
		{UserID: 1, ID: 1, Title: "a"},
	}); err != nil {
		t.Fatalf("ReplaceAll returned error: %v", err)
	}

	got, err := s.AlbumsByOwner(ctx, 1)
	if err != nil {
		t.Fatalf("AlbumsByOwner returned error: %v", err)
	}
	want := []album.Album{{UserID: 1, ID: 1, Title: "a"}, {UserID: 1, ID: 4, Title: "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AlbumsByOwner(1) = %#v, want %#v", got, want)
	}

	none, err := s.AlbumsByOwner(ctx, 99)
	if err != nil {
		t.Fatalf("AlbumsByOwner returned error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("AlbumsByOwner(99) = %#v, want empty", none)
	}
}

func TestLastSync(t *testing.T) {
	s := OpenMemory(t)
	ctx := context.Background()

	if _, ok, err := s.LastSync(ctx); err != nil || ok {
		t.Fatalf("LastSync on empty store = ok %v err %v, want false nil", ok, err)
	}

	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	if err := s.ReplaceAll(ctx, []album.Album{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}); err != nil {
		t.Fatalf("ReplaceAll returned error: %v", err)
	}

	info, ok, err := s.LastSync(ctx)
	if err != nil || !ok {
		t.Fatalf("LastSync = ok %v err %v, want true nil", ok, err)
	}
	if !info.SyncedAt.Equal(fixed) || info.AlbumCount != 2 {
		t.Fatalf("LastSync = %+v, want %v with 2 albums", info, fixed)
	}
}

func TestOpen_FileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "albums.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.ReplaceAll(ctx, []album.Album{{UserID: 1, ID: 1, Title: "kept"}}); err != nil {
		t.Fatalf("ReplaceAll returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	got, err := s.AlbumsSorted(ctx)
	if err != nil {
		t.Fatalf("AlbumsSorted returned error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "kept" {
		t.Fatalf("AlbumsSorted after reopen = %#v, want kept album", got)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("Open(\"\") returned nil error")
	}
}

func TestOpen_Options(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums.db")
	s, err := Open(path, WithBusyTimeout(250), WithSynchronous("FULL"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	var timeout, synchronous int
	if err := s.DB.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("read busy_timeout: %v", err)
	}
	if err := s.DB.QueryRow("PRAGMA synchronous").Scan(&synchronous); err != nil {
		t.Fatalf("read synchronous: %v", err)
	}
	if timeout != 250 {
		t.Fatalf("busy_timeout = %d, want 250", timeout)
	}
	if synchronous != 2 { // FULL
		t.Fatalf("synchronous = %d, want 2 (FULL)", synchronous)
	}
}

func TestOpen_WithoutMkdirAllNeedsParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "albums.db")
	if s, err := Open(path, WithoutMkdirAll()); err == nil {
		_ = s.Close()
		t.Fatalf("Open created %s without its parent directory", path)
	}
}
