package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Snapshot is the JSON export format produced by the browser-side collector.
// Timestamps are unix milliseconds; zero means unknown.
type Snapshot struct {
	Bookmarks []SnapshotBookmark `json:"bookmarks"`
	Tabs      []SnapshotTab      `json:"tabs"`
	History   []SnapshotHistory  `json:"history"`
}

type SnapshotBookmark struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Tags      string `json:"tags"`
	Folder    string `json:"folder"`
	DateAdded int64  `json:"dateAdded"`
}

type SnapshotTab struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Group        string `json:"group"`
	LastAccessed int64  `json:"lastAccessed"`
}

type SnapshotHistory struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	VisitCount    int    `json:"visitCount"`
	LastVisitTime int64  `json:"lastVisitTime"`
}

// ImportCounts reports how many rows each dataset received.
type ImportCounts struct {
	Bookmarks int
	Tabs      int
	History   int
}

// ReadSnapshot decodes a snapshot export from r.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// ImportSnapshot replaces the stored datasets with the snapshot's contents
// in one transaction. Records without an ID get a generated one so re-import
// semantics stay well defined.
func (s *SQLiteStore) ImportSnapshot(ctx context.Context, snap *Snapshot) (ImportCounts, error) {
	var counts ImportCounts

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"bookmarks", "tabs", "history"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return counts, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	counts.Bookmarks, err = importBookmarks(ctx, tx, snap.Bookmarks)
	if err != nil {
		return counts, err
	}
	counts.Tabs, err = importTabs(ctx, tx, snap.Tabs)
	if err != nil {
		return counts, err
	}
	counts.History, err = importHistory(ctx, tx, snap.History)
	if err != nil {
		return counts, err
	}

	if err := tx.Commit(); err != nil {
		return counts, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return counts, nil
}

func importBookmarks(ctx context.Context, tx *sql.Tx, rows []SnapshotBookmark) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bookmarks (id, title, url, tags, folder, date_added_unix_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare bookmark insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, b := range rows {
		if b.URL == "" {
			continue
		}
		id := b.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, id, b.Title, b.URL, b.Tags, b.Folder, b.DateAdded); err != nil {
			return n, fmt.Errorf("failed to insert bookmark %s: %w", id, err)
		}
		n++
	}
	return n, nil
}

func importTabs(ctx context.Context, tx *sql.Tx, rows []SnapshotTab) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO tabs (id, title, url, group_label, last_visit_unix_ms)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare tab insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, t := range rows {
		if t.URL == "" {
			continue
		}
		id := t.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, id, t.Title, t.URL, t.Group, nullableMillis(t.LastAccessed)); err != nil {
			return n, fmt.Errorf("failed to insert tab %s: %w", id, err)
		}
		n++
	}
	return n, nil
}

func importHistory(ctx context.Context, tx *sql.Tx, rows []SnapshotHistory) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO history (id, title, url, visit_count, last_visit_unix_ms)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, h := range rows {
		if h.URL == "" {
			continue
		}
		id := h.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, id, h.Title, h.URL, h.VisitCount, nullableMillis(h.LastVisitTime)); err != nil {
			return n, fmt.Errorf("failed to insert history entry %s: %w", id, err)
		}
		n++
	}
	return n, nil
}

// nullableMillis maps the snapshot's zero-means-unknown convention to NULL.
func nullableMillis(ms int64) any {
	if ms <= 0 {
		return nil
	}
	return ms
}
