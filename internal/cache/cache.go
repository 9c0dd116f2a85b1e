// Package cache persists extracted tags keyed by file path and metadata.
// Entries are invalidated lazily: a lookup whose recorded mtime, size, or
// format version differs from the current file is a miss, and the entry is
// overwritten on the next store.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/repomap/internal/tags"
)

// FormatVersion is bumped whenever the serialized tag layout or the
// extraction rules change. Entries written under an older version are
// treated as misses.
const FormatVersion = 1

// DirName is the cache directory created under the repository root.
const DirName = ".repomap.tags.cache.v1"

// TagCache stores extracted tags for files in a repository.
type TagCache interface {
	// Get returns the cached tags for path if the recorded mtime, size,
	// and format version all match. ok is false on any mismatch.
	Get(path string, mtime int64, size int64) (cached []tags.Tag, ok bool)

	// Put stores tags for path, replacing any previous entry.
	Put(path string, mtime int64, size int64, fileTags []tags.Tag) error

	// Stats returns the number of cached entries and the database size
	// in bytes.
	Stats() (entries int, sizeBytes int64, err error)

	// Clear removes all cached entries.
	Clear() error

	// Close releases the underlying database.
	Close() error
}

type sqliteCache struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the tag cache under root. A database that cannot
// be opened or whose schema is corrupt is removed and recreated; Open only
// fails when the directory itself is unusable.
func Open(root string) (TagCache, error) {
	dir := filepath.Join(root, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "tags.db")
	c, err := open(dbPath)
	if err == nil {
		return c, nil
	}

	if rmErr := os.Remove(dbPath); rmErr != nil && !os.IsNotExist(rmErr) {
		return nil, fmt.Errorf("failed to reset cache database: %w", rmErr)
	}
	c, err = open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	return c, nil
}

func open(dbPath string) (*sqliteCache, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS file_tags (
		path TEXT PRIMARY KEY,
		mtime INTEGER NOT NULL,
		size INTEGER NOT NULL,
		version INTEGER NOT NULL,
		tags BLOB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	INSERT OR REPLACE INTO meta (key, value) VALUES ('format_version', '1');
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &sqliteCache{db: db, path: dbPath}, nil
}

func (c *sqliteCache) Get(path string, mtime int64, size int64) ([]tags.Tag, bool) {
	var (
		gotMtime   int64
		gotSize    int64
		gotVersion int
		blob       []byte
	)
	err := c.db.QueryRow(
		`SELECT mtime, size, version, tags FROM file_tags WHERE path = ?`, path,
	).Scan(&gotMtime, &gotSize, &gotVersion, &blob)
	if err != nil {
		return nil, false
	}
	if gotMtime != mtime || gotSize != size || gotVersion != FormatVersion {
		return nil, false
	}

	var cached []tags.Tag
	if err := json.Unmarshal(blob, &cached); err != nil {
		// Corrupt entry. Treat as a miss; the caller re-extracts and
		// overwrites it.
		return nil, false
	}
	return cached, true
}

func (c *sqliteCache) Put(path string, mtime int64, size int64, fileTags []tags.Tag) error {
	blob, err := json.Marshal(fileTags)
	if err != nil {
		return fmt.Errorf("failed to encode tags for %s: %w", path, err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO file_tags (path, mtime, size, version, tags) VALUES (?, ?, ?, ?, ?)`,
		path, mtime, size, FormatVersion, blob,
	)
	if err != nil {
		return fmt.Errorf("failed to store tags for %s: %w", path, err)
	}
	return nil
}

func (c *sqliteCache) Stats() (int, int64, error) {
	var entries int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM file_tags`).Scan(&entries); err != nil {
		return 0, 0, fmt.Errorf("failed to count cache entries: %w", err)
	}

	info, err := os.Stat(c.path)
	if err != nil {
		return entries, 0, fmt.Errorf("failed to stat cache database: %w", err)
	}
	return entries, info.Size(), nil
}

func (c *sqliteCache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM file_tags`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

func (c *sqliteCache) Close() error {
	return c.db.Close()
}

// Nop returns a cache that stores nothing. Used when caching is disabled.
func Nop() TagCache {
	return nopCache{}
}

type nopCache struct{}

func (nopCache) Get(string, int64, int64) ([]tags.Tag, bool) { return nil, false }
func (nopCache) Put(string, int64, int64, []tags.Tag) error  { return nil }
func (nopCache) Stats() (int, int64, error)                  { return 0, 0, nil }
func (nopCache) Clear() error                                { return nil }
func (nopCache) Close() error                                { return nil }
