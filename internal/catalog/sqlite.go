package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteSource reads records from a games table:
//
//	games(id TEXT, title TEXT, description TEXT, category TEXT,
//	      thumbnail TEXT, iframe_url TEXT, featured INTEGER)
//
// Rows come back in rowid order and are re-encoded as the JSON array shape so the
// same decode policy applies to every source.
type SQLiteSource struct {
	Path string
}

func (s *SQLiteSource) Location() string { return "sqlite://" + s.Path }

func (s *SQLiteSource) Fetch(ctx context.Context) ([]byte, error) {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite catalog: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, title, description, category, thumbnail, iframe_url, featured
		FROM games ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	records := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id, title, desc, cat, thumb, frame sql.NullString
			featured                           sql.NullBool
		)
		if err := rows.Scan(&id, &title, &desc, &cat, &thumb, &frame, &featured); err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		records = append(records, map[string]any{
			"id":          id.String,
			"title":       title.String,
			"description": desc.String,
			"category":    cat.String,
			"thumbnail":   thumb.String,
			"iframeUrl":   frame.String,
			"featured":    featured.Valid && featured.Bool,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode games: %w", err)
	}
	return data, nil
}
