// Package store provides a SQLite-backed cache of imported catalogs, keyed by
// file path and invalidated when the file's mtime, size or sheet changes.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spesa/internal/catalog"
	"github.com/theirongolddev/spesa/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed catalog caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo identifies the version of a file a cached catalog came from.
type FileInfo struct {
	Sheet     string
	MtimeNs   int64
	SizeBytes int64
}

// Entry is a cached import result.
type Entry struct {
	Items  []model.CatalogItem
	Report catalog.ImportReport
}

// Lookup returns the cached catalog for path if it was stored for the same
// file version. ok is false on a miss.
func (c *Cache) Lookup(path string, fi FileInfo) (Entry, bool, error) {
	var (
		cached FileInfo
		rep    catalog.ImportReport
	)
	err := c.db.QueryRow(`SELECT sheet, mtime_ns, size_bytes, header_row, considered,
		missing_fields, promotional, bad_price
		FROM file_tracker WHERE file_path = ?`, path).Scan(
		&cached.Sheet, &cached.MtimeNs, &cached.SizeBytes, &rep.HeaderRow, &rep.Considered,
		&rep.MissingFields, &rep.Promotional, &rep.BadPrice,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	if cached != fi {
		return Entry{}, false, nil
	}

	rows, err := c.db.Query(`SELECT code, name, unit_price FROM catalog_items
		WHERE file_path = ? ORDER BY position`, path)
	if err != nil {
		return Entry{}, false, err
	}
	defer func() { _ = rows.Close() }()

	items := make([]model.CatalogItem, 0, rep.Considered)
	for rows.Next() {
		var it model.CatalogItem
		var price string
		if err := rows.Scan(&it.Code, &it.Name, &price); err != nil {
			return Entry{}, false, err
		}
		it.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return Entry{}, false, fmt.Errorf("cached price for %s: %w", it.Code, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, false, err
	}

	rep.Imported = len(items)
	return Entry{Items: items, Report: rep}, true, nil
}

// Save replaces the cached catalog for path.
func (c *Cache) Save(path string, fi FileInfo, e Entry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Cascade clears the old items.
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", path); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT INTO file_tracker
		(file_path, sheet, mtime_ns, size_bytes, header_row, considered,
		 missing_fields, promotional, bad_price, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		path, fi.Sheet, fi.MtimeNs, fi.SizeBytes, e.Report.HeaderRow, e.Report.Considered,
		e.Report.MissingFields, e.Report.Promotional, e.Report.BadPrice, now,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO catalog_items
		(file_path, position, code, name, unit_price) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, it := range e.Items {
		if _, err := stmt.Exec(path, i, it.Code, it.Name, it.UnitPrice.String()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes the cached catalog for path.
func (c *Cache) Delete(path string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", path)
	return err
}

// CatalogCount returns the number of cached catalogs.
func (c *Cache) CatalogCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM file_tracker").Scan(&count)
	return count, err
}
