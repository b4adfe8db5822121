// Package sqlite keeps translated explanations in a local SQLite file so
// they survive restarts of the terminal client.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/explain"
)

// DefaultMaxEntries bounds the table when no limit is configured.
const DefaultMaxEntries = 5000

// TranslationCache implements explain.Cache on a translation_cache table.
type TranslationCache struct {
	conn       *sql.DB
	maxEntries int
	now        func() time.Time
}

// Open creates the database file if needed and initializes the table.
func Open(path string, maxEntries int) (*TranslationCache, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	if err = createTables(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &TranslationCache{conn: conn, maxEntries: maxEntries, now: time.Now}, nil
}

func createTables(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS translation_cache (
			text_hash TEXT NOT NULL,
			language TEXT NOT NULL,
			translated TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (text_hash, language)
		)
	`)
	return err
}

// Close closes the database connection.
func (c *TranslationCache) Close() error {
	return c.conn.Close()
}

func (c *TranslationCache) Get(ctx context.Context, text string, lang domain.Language) (string, bool, error) {
	var translated string
	err := c.conn.QueryRowContext(ctx,
		"SELECT translated FROM translation_cache WHERE text_hash = ? AND language = ?",
		explain.TextHash(text), string(lang),
	).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return translated, true, nil
}

// Set stores a translation and trims the oldest rows beyond the size limit.
func (c *TranslationCache) Set(ctx context.Context, text string, lang domain.Language, translated string) error {
	_, err := c.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO translation_cache (text_hash, language, translated, created_at) VALUES (?, ?, ?, ?)",
		explain.TextHash(text), string(lang), translated, c.now().UnixNano(),
	)
	if err != nil {
		return err
	}
	_, err = c.conn.ExecContext(ctx, `
		DELETE FROM translation_cache WHERE rowid NOT IN (
			SELECT rowid FROM translation_cache ORDER BY created_at DESC LIMIT ?
		)
	`, c.maxEntries)
	return err
}

// Len reports how many rows are cached.
func (c *TranslationCache) Len(ctx context.Context) (int, error) {
	var n int
	err := c.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM translation_cache").Scan(&n)
	return n, err
}
