// Package store provides SQLite-based persistence for discovery documents.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/topicscan/go/report"
)

// ErrNotFound is returned when no document exists under the requested id.
var ErrNotFound = errors.New("document not found")

// Store handles SQLite database operations for saved discovery documents.
type Store struct {
	db *sql.DB
}

// SnapshotInfo is one row of the document index.
type SnapshotInfo struct {
	ID         string    `json:"id"`
	CapturedAt time.Time `json:"captured_at"`
	TopicCount int       `json:"topic_count"`
}

// Open creates a Store backed by the database at the given path. The
// schema is migrated on open. Use ":memory:" for an ephemeral store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		captured_at DATETIME NOT NULL,
		topic_count INTEGER NOT NULL DEFAULT 0,
		body TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_captured_at
		ON documents(captured_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save persists one discovery document.
func (s *Store) Save(doc report.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO documents (id, captured_at, topic_count, body) VALUES (?, ?, ?, ?)`,
		doc.ID, doc.CapturedAt.UTC(), len(doc.Topics), string(body),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// Get loads one document by id.
func (s *Store) Get(id string) (report.Document, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM documents WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return report.Document{}, ErrNotFound
	}
	if err != nil {
		return report.Document{}, fmt.Errorf("query document: %w", err)
	}

	var doc report.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return report.Document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// List returns the document index, most recent first.
func (s *Store) List() ([]SnapshotInfo, error) {
	rows, err := s.db.Query(
		`SELECT id, captured_at, topic_count FROM documents ORDER BY captured_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.ID, &info.CapturedAt, &info.TopicCount); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
