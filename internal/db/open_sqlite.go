package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/tablemark/pkg/api"
)

type sqliteArchive struct{ db *sql.DB }

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, path string) (*sqliteArchive, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if _, err := dbh.ExecContext(ctx, `PRAGMA busy_timeout=5000;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteArchive{db: dbh}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS renders (
  id TEXT PRIMARY KEY,
  markdown TEXT NOT NULL,
  html TEXT NOT NULL,
  tables INTEGER NOT NULL,
  created_unix_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_unix_ns DESC);
`)
	return err
}

func (s *sqliteArchive) Put(ctx context.Context, r api.Render) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO renders(id, markdown, html, tables, created_unix_ns) VALUES(?,?,?,?,?)`,
		r.ID, r.Markdown, r.HTML, r.Tables, r.CreatedAt.UnixNano())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *sqliteArchive) Get(ctx context.Context, id string) (api.Render, error) {
	if err := checkID(id); err != nil {
		return api.Render{}, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, markdown, html, tables, created_unix_ns FROM renders
WHERE id = ? OR substr(id, 1, ?) = ?
ORDER BY id = ? DESC
LIMIT 2`, id, len(id), id, id)
	if err != nil {
		return api.Render{}, err
	}
	defer rows.Close()

	var out []api.Render
	for rows.Next() {
		r, err := scanRender(rows, true)
		if err != nil {
			return api.Render{}, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return api.Render{}, err
	}
	switch {
	case len(out) == 0:
		return api.Render{}, ErrNotFound
	case out[0].ID == id || len(out) == 1:
		return out[0], nil
	default:
		return api.Render{}, ErrAmbiguous
	}
}

func (s *sqliteArchive) List(ctx context.Context, limit int) ([]api.Render, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, '' AS markdown, '' AS html, tables, created_unix_ns FROM renders
ORDER BY created_unix_ns DESC, rowid DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.Render
	for rows.Next() {
		r, err := scanRender(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteArchive) Delete(ctx context.Context, id string) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM renders WHERE id = ?`, r.ID)
	return err
}

func (s *sqliteArchive) Close() error { return s.db.Close() }

func scanRender(rows *sql.Rows, bodies bool) (api.Render, error) {
	var r api.Render
	var ns int64
	if err := rows.Scan(&r.ID, &r.Markdown, &r.HTML, &r.Tables, &ns); err != nil {
		return api.Render{}, err
	}
	r.CreatedAt = time.Unix(0, ns).UTC()
	if !bodies {
		r = summary(r)
	}
	return r, nil
}
