package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/runger/markfind/internal/corpus"
)

// LoadCorpus reads all three datasets and returns a fully normalized corpus
// snapshot. Bookmark title directives ("Title +5 #tag") are parsed here, so
// the stored rows keep the raw authored titles while the corpus carries the
// cleaned ones.
func (s *SQLiteStore) LoadCorpus(ctx context.Context) (*corpus.Corpus, error) {
	now := time.Now().UnixMilli()

	bookmarks, err := s.loadBookmarks(ctx)
	if err != nil {
		return nil, err
	}
	tabs, err := s.loadTabs(ctx, now)
	if err != nil {
		return nil, err
	}
	history, err := s.loadHistory(ctx, now)
	if err != nil {
		return nil, err
	}

	return &corpus.Corpus{Bookmarks: bookmarks, Tabs: tabs, History: history}, nil
}

func (s *SQLiteStore) loadBookmarks(ctx context.Context) ([]corpus.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, url, tags, folder, date_added_unix_ms
		FROM bookmarks ORDER BY date_added_unix_ms DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	defer rows.Close()

	var out []corpus.Entry
	for rows.Next() {
		var e corpus.Entry
		var rawTitle, tags string
		if err := rows.Scan(&e.ID, &rawTitle, &e.URL, &tags, &e.Folder, &e.DateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		e.Type = corpus.TypeBookmark

		clean, bonus, titleTags := corpus.ParseTitleDirectives(rawTitle)
		e.Title = clean
		e.CustomBonus = bonus
		e.Tags = joinTags(tags, titleTags)
		e.Normalize()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadTabs(ctx context.Context, nowMillis int64) ([]corpus.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, url, group_label, last_visit_unix_ms
		FROM tabs
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tabs: %w", err)
	}
	defer rows.Close()

	var out []corpus.Entry
	for rows.Next() {
		var e corpus.Entry
		var lastVisit sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Title, &e.URL, &e.Group, &lastVisit); err != nil {
			return nil, fmt.Errorf("failed to scan tab: %w", err)
		}
		e.Type = corpus.TypeTab
		e.LastVisitSecondsAgo = secondsAgo(lastVisit, nowMillis)
		e.Normalize()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadHistory(ctx context.Context, nowMillis int64) ([]corpus.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, url, visit_count, last_visit_unix_ms
		FROM history ORDER BY last_visit_unix_ms DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var out []corpus.Entry
	for rows.Next() {
		var e corpus.Entry
		var lastVisit sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Title, &e.URL, &e.VisitCount, &lastVisit); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Type = corpus.TypeHistory
		e.LastVisitSecondsAgo = secondsAgo(lastVisit, nowMillis)
		e.Normalize()
		out = append(out, e)
	}
	return out, rows.Err()
}

// secondsAgo converts a stored last-visit timestamp into the relative form
// the scoring engine consumes. Future timestamps clamp to zero.
func secondsAgo(lastVisit sql.NullInt64, nowMillis int64) *int64 {
	if !lastVisit.Valid {
		return nil
	}
	secs := (nowMillis - lastVisit.Int64) / 1000
	if secs < 0 {
		secs = 0
	}
	return &secs
}

func joinTags(stored, fromTitle string) string {
	switch {
	case stored == "":
		return fromTitle
	case fromTitle == "":
		return stored
	default:
		return stored + " " + fromTitle
	}
}

// Counts returns per-dataset row counts, used by the import command's
// summary output.
func (s *SQLiteStore) Counts(ctx context.Context) (ImportCounts, error) {
	var counts ImportCounts
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"bookmarks", &counts.Bookmarks},
		{"tabs", &counts.Tabs},
		{"history", &counts.History},
	} {
		row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+q.table)
		if err := row.Scan(q.dst); err != nil {
			return counts, fmt.Errorf("failed to count %s: %w", q.table, err)
		}
	}
	return counts, nil
}
