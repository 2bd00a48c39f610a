// CLAUDE:SUMMARY SQLite cache of converted documents keyed by content SHA-256 and the conversion options.
package docpipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/pkg/dbopen"
	"github.com/hazyhaar/pkg/idgen"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS conversions (
	id          TEXT PRIMARY KEY,
	digest      TEXT NOT NULL,
	options     TEXT NOT NULL,
	document    TEXT NOT NULL,
	hits        INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL,
	last_hit_at INTEGER,
	UNIQUE (digest, options)
);`

// Cache stores conversion results. The caller must blank-import the
// SQLite driver (modernc.org/sqlite).
type Cache struct {
	db    *sql.DB
	newID idgen.Generator
}

// CacheStats summarises cache usage.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
}

// OpenCache opens (or creates) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(cacheSchema))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db, newID: idgen.Prefixed("conv_", idgen.Default)}, nil
}

// NewCache wraps an open database, creating the table if needed.
func NewCache(db *sql.DB) (*Cache, error) {
	if _, err := db.Exec(cacheSchema); err != nil {
		return nil, fmt.Errorf("cache schema: %w", err)
	}
	return &Cache{db: db, newID: idgen.Prefixed("conv_", idgen.Default)}, nil
}

// Get returns the document cached for digest under the given conversion
// options. Entries stored under other options never match.
func (c *Cache) Get(ctx context.Context, digest, options string) (*Document, bool, error) {
	var raw string
	err := c.db.QueryRowContext(ctx,
		`SELECT document FROM conversions WHERE digest = ? AND options = ?`, digest, options).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	if _, err := c.db.ExecContext(ctx,
		`UPDATE conversions SET hits = hits + 1, last_hit_at = ? WHERE digest = ? AND options = ?`,
		time.Now().Unix(), digest, options); err != nil {
		return nil, false, fmt.Errorf("cache touch: %w", err)
	}
	return &doc, true, nil
}

// Put stores doc under (doc.Digest, options), replacing any previous entry.
func (c *Cache) Put(ctx context.Context, options string, doc *Document) error {
	if doc.Digest == "" {
		return fmt.Errorf("cache put: empty digest")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO conversions (id, digest, options, document, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(digest, options) DO UPDATE SET document = excluded.document`,
		c.newID(), doc.Digest, options, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Stats returns the entry count and total hits.
func (c *Cache) Stats(ctx context.Context) (CacheStats, error) {
	var s CacheStats
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM conversions`).Scan(&s.Entries, &s.Hits)
	if err != nil {
		return CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return s, nil
}

// Purge deletes entries not hit since before.
func (c *Cache) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM conversions WHERE COALESCE(last_hit_at, created_at) < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (c *Cache) Close() error { return c.db.Close() }
