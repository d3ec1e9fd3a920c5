// Package store persists the album snapshot in SQLite.
//
// The table holds exactly the last successful remote response: ReplaceAll
// swaps the whole collection inside one transaction, so readers never see a
// partially written snapshot.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/five82/albumsync/internal/album"
)

// Store wraps the album database.
type Store struct {
	DB  *sql.DB
	now func() time.Time
}

// New creates a Store from an already-opened and migrated connection.
func New(db *sql.DB) *Store {
	return &Store{DB: db, now: time.Now}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// SyncInfo describes the last ReplaceAll.
type SyncInfo struct {
	SyncedAt   time.Time
	AlbumCount int
}

// AlbumsSorted returns every album ordered by title ascending.
func (s *Store) AlbumsSorted(ctx context.Context) ([]album.Album, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT user_id, id, title FROM albums ORDER BY title ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query albums: %w", err)
	}
	return scanAlbums(rows)
}

// AlbumsByOwner returns the albums belonging to userID, ordered by id.
func (s *Store) AlbumsByOwner(ctx context.Context, userID int) ([]album.Album, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT user_id, id, title FROM albums WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query albums by owner %d: %w", userID, err)
	}
	return scanAlbums(rows)
}

// ReplaceAll atomically replaces the stored collection with albums. Rows are
// keyed by id; a later duplicate id in albums wins.
func (s *Store) ReplaceAll(ctx context.Context, albums []album.Album) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM albums`); err != nil {
		return fmt.Errorf("clear albums: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO albums(id, user_id, title) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, a := range albums {
		if _, err := stmt.ExecContext(ctx, a.ID, a.UserID, a.Title); err != nil {
			return fmt.Errorf("insert album %d: %w", a.ID, err)
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums`).Scan(&count); err != nil {
		return fmt.Errorf("count albums: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sync_log(synced_at, album_count) VALUES (?, ?)`,
		s.now().UTC().Format(time.RFC3339Nano), count); err != nil {
		return fmt.Errorf("record sync: %w", err)
	}
	return tx.Commit()
}

// LastSync reports the most recent ReplaceAll. ok is false when the store
// has never been written.
func (s *Store) LastSync(ctx context.Context) (info SyncInfo, ok bool, err error) {
	var syncedAt string
	err = s.DB.QueryRowContext(ctx,
		`SELECT synced_at, album_count FROM sync_log ORDER BY id DESC LIMIT 1`).Scan(&syncedAt, &info.AlbumCount)
	if errors.Is(err, sql.ErrNoRows) {
		return SyncInfo{}, false, nil
	}
	if err != nil {
		return SyncInfo{}, false, fmt.Errorf("query sync log: %w", err)
	}
	info.SyncedAt, err = time.Parse(time.RFC3339Nano, syncedAt)
	if err != nil {
		return SyncInfo{}, false, fmt.Errorf("parse synced_at %q: %w", syncedAt, err)
	}
	return info, true, nil
}

func scanAlbums(rows *sql.Rows) ([]album.Album, error) {
	defer rows.Close()
	var out []album.Album
	for rows.Next() {
		var a album.Album
		if err := rows.Scan(&a.UserID, &a.ID, &a.Title); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return out, nil
}
