// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notecache persists paraphrased note blocks in a SQLite database
// keyed by a hash of the extracted document text. Re-running the pipeline on
// an unchanged document serves the cached blocks and skips generation
// entirely.
package notecache

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notedistill/pkg/types"
)

const dbFile = "notes.db"

// Store manages the notes cache database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at dir/notes.db, creating the
// schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		hash TEXT PRIMARY KEY,
		path TEXT,
		blocks TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Hash returns the cache key for extracted document text.
func Hash(text string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(text)))
}

// Lookup returns the cached note blocks for a document hash, or ok=false on
// a miss. A row that fails to decode is treated as a miss rather than an
// error; the pipeline regenerates and overwrites it.
func (s *Store) Lookup(hash string) (blocks []types.NoteBlock, ok bool, err error) {
	var payload string
	row := s.db.QueryRow(`SELECT blocks FROM documents WHERE hash = ?`, hash)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}

	if err := yaml.Unmarshal([]byte(payload), &blocks); err != nil {
		return nil, false, nil
	}
	return blocks, true, nil
}

// Put stores the note blocks for a document hash, replacing any previous
// entry.
func (s *Store) Put(hash, path string, blocks []types.NoteBlock) error {
	payload, err := yaml.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("encoding cached blocks: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO documents (hash, path, blocks, created_at) VALUES (?, ?, ?, ?)`,
		hash, path, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}
