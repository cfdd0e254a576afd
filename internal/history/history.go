// Package history persists resolved videos to a local SQLite database so
// earlier resolutions can be replayed without hitting the site again.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

var ErrStoreNotInited = errors.New("history store not initialized")

const (
	defaultCacheSize  = -20000    // 20MB
	mmapSize          = 268435456 // 256MB
	busyTimeout       = 5000      // milliseconds
	walAutoCheckpoint = 1000      // pages
	maxOpenConns      = 5
	maxIdleConns      = 2
	avgEntriesPerUser = 100
)

// Entry is one resolved video.
type Entry struct {
	PageURL     string    `json:"page_url"`
	Site        string    `json:"site"`
	Title       string    `json:"title"`
	ResolvedURL string    `json:"resolved_url"`
	Quality     string    `json:"quality"`
	RecorderID  string    `json:"recorder_id"`
	ResolvedAt  time.Time `json:"resolved_at"`
}

// Store wraps the SQLite database. A nil Store is safe to call and reports
// ErrStoreNotInited, so callers never have to branch on availability.
type Store struct {
	db       *sql.DB
	upsertPS *sql.Stmt
	getPS    *sql.Stmt
	allPS    *sql.Stmt
	deletePS *sql.Stmt
}

// Open is assigned at init time depending on whether SQLite support was
// compiled in.
var Open func(dbPath string) *Store

func openImpl(dbPath string) *Store {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		fmt.Printf("Error creating data directory: %v\n", err)
		return nil
	}

	path := dbPath
	extra := ""
	if runtime.GOOS == "windows" {
		path = strings.ReplaceAll(dbPath, "\\", "/")
		extra = "&_mode=rwc"
	}
	dsn := fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_synchronous=NORMAL&_wal_autocheckpoint=%d&"+
			"_busy_timeout=%d&_cache_size=%d&_mmap_size=%d%s",
		path, walAutoCheckpoint, busyTimeout, defaultCacheSize, mmapSize, extra,
	)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		return nil
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	if err := initializeDatabase(db); err != nil {
		_ = db.Close()
		fmt.Printf("Error initializing database: %v\n", err)
		return nil
	}

	s := &Store{db: db}
	if err := s.prepareStatements(); err != nil {
		_ = db.Close()
		fmt.Printf("Error preparing statements: %v\n", err)
		return nil
	}
	return s
}

func initializeDatabase(db *sql.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS resolve_history (
		page_url     TEXT NOT NULL,
		site         TEXT NOT NULL,
		title        TEXT,
		resolved_url TEXT NOT NULL,
		quality      TEXT,
		recorder_id  TEXT,
		resolved_at  INTEGER NOT NULL,
		PRIMARY KEY (page_url)
	);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_history_site
		ON resolve_history(site, resolved_at)`); err != nil {
		return fmt.Errorf("index creation failed: %w", err)
	}

	if _, err := db.Exec(`PRAGMA optimize`); err != nil {
		return fmt.Errorf("initial optimization failed: %w", err)
	}

	return nil
}

func (s *Store) prepareStatements() error {
	var err error

	s.upsertPS, err = s.db.Prepare(`INSERT INTO resolve_history (
		page_url, site, title, resolved_url, quality, recorder_id, resolved_at
	) VALUES (?,?,?,?,?,?,?)
	ON CONFLICT(page_url) DO UPDATE SET
		site = excluded.site,
		title = excluded.title,
		resolved_url = excluded.resolved_url,
		quality = excluded.quality,
		recorder_id = excluded.recorder_id,
		resolved_at = excluded.resolved_at`)
	if err != nil {
		return fmt.Errorf("upsert preparation failed: %w", err)
	}

	s.getPS, err = s.db.Prepare(`SELECT
		site, title, resolved_url, quality, recorder_id, resolved_at
	FROM resolve_history WHERE page_url = ?`)
	if err != nil {
		return fmt.Errorf("get preparation failed: %w", err)
	}

	s.allPS, err = s.db.Prepare(`SELECT
		page_url, site, title, resolved_url, quality, recorder_id, resolved_at
	FROM resolve_history ORDER BY resolved_at DESC`)
	if err != nil {
		return fmt.Errorf("all preparation failed: %w", err)
	}

	s.deletePS, err = s.db.Prepare(`DELETE FROM resolve_history WHERE page_url = ?`)
	if err != nil {
		return fmt.Errorf("delete preparation failed: %w", err)
	}

	return nil
}

// Record stores or refreshes the entry for its page URL.
func (s *Store) Record(e Entry) error {
	if s == nil || s.db == nil || s.upsertPS == nil {
		return ErrStoreNotInited
	}
	if e.PageURL == "" || e.ResolvedURL == "" {
		return fmt.Errorf("entry needs page_url and resolved_url")
	}
	if e.ResolvedAt.IsZero() {
		e.ResolvedAt = time.Now()
	}

	_, err := s.upsertPS.Exec(
		e.PageURL, e.Site, e.Title, e.ResolvedURL, e.Quality, e.RecorderID,
		e.ResolvedAt.Unix(),
	)
	return err
}

// Get returns the entry for pageURL, or nil when none is recorded.
func (s *Store) Get(pageURL string) (*Entry, error) {
	if s == nil || s.db == nil || s.getPS == nil {
		return nil, ErrStoreNotInited
	}

	var e Entry
	var ts int64
	err := s.getPS.QueryRow(pageURL).Scan(
		&e.Site, &e.Title, &e.ResolvedURL, &e.Quality, &e.RecorderID, &ts,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}

	e.PageURL = pageURL
	e.ResolvedAt = time.Unix(ts, 0)
	return &e, nil
}

// All returns every recorded entry, newest first.
func (s *Store) All() ([]Entry, error) {
	if s == nil || s.db == nil || s.allPS == nil {
		return nil, ErrStoreNotInited
	}

	rows, err := s.allPS.Query()
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := make([]Entry, 0, avgEntriesPerUser)
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(
			&e.PageURL, &e.Site, &e.Title, &e.ResolvedURL, &e.Quality,
			&e.RecorderID, &ts,
		); err != nil {
			return nil, fmt.Errorf("row scan failed: %w", err)
		}
		e.ResolvedAt = time.Unix(ts, 0)
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return list, nil
}

// Delete removes the entry for pageURL.
func (s *Store) Delete(pageURL string) error {
	if s == nil || s.db == nil || s.deletePS == nil {
		return ErrStoreNotInited
	}
	_, err := s.deletePS.Exec(pageURL)
	return err
}

// Close releases the prepared statements and the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	var finalErr error
	for _, stmt := range []*sql.Stmt{s.upsertPS, s.getPS, s.allPS, s.deletePS} {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil {
			finalErr = fmt.Errorf("statement close error: %w", err)
		}
	}

	if err := s.db.Close(); err != nil {
		finalErr = fmt.Errorf("database close error: %w", err)
	}
	return finalErr
}
