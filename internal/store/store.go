// Package store persists prediction inputs and results in a local SQLite
// database so past predictions can be revisited.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Record is one persisted prediction: the raw input, the result and which
// predictor produced it.
type Record struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"created_at"`
	Kind      string          `json:"kind"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
}

// Store wraps the predictions database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the predictions database inside dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "predictions.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open predictions database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		kind TEXT NOT NULL,
		input TEXT NOT NULL,
		result TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create predictions table: %w", err)
	}

	return &Store{db: db}, nil
}

// Save persists one prediction and returns its generated id.
func (s *Store) Save(kind string, input, result interface{}) (string, error) {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to marshal prediction input: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal prediction result: %w", err)
	}

	id := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.Exec(
		"INSERT INTO predictions (id, created_at, kind, input, result) VALUES (?, ?, ?, ?, ?)",
		id, createdAt, kind, string(inputJSON), string(resultJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert prediction: %w", err)
	}
	return id, nil
}

// Get retrieves one prediction by id.
func (s *Store) Get(id string) (*Record, error) {
	var rec Record
	var input, result string
	err := s.db.QueryRow(
		"SELECT id, created_at, kind, input, result FROM predictions WHERE id = ?", id,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.Kind, &input, &result)
	if err != nil {
		return nil, fmt.Errorf("prediction not found: %s: %w", id, err)
	}
	rec.Input = json.RawMessage(input)
	rec.Result = json.RawMessage(result)
	return &rec, nil
}

// List returns the most recent predictions, newest first.
func (s *Store) List(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		"SELECT id, created_at, kind, input, result FROM predictions ORDER BY created_at DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		var input, result string
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Kind, &input, &result); err != nil {
			continue
		}
		rec.Input = json.RawMessage(input)
		rec.Result = json.RawMessage(result)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
