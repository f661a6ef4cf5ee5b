//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/daVinciBot1495/halite-3/internal/codec"
	"github.com/daVinciBot1495/halite-3/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveValueTable(ctx context.Context, id string, values map[model.StateAction]float64) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	// Value tables are stored in the same line format as the snapshot
	// file, so either backend can restore the other's output.
	payload, err := codec.Save(values)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO value_tables (id, schema_version, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			payload = excluded.payload
	`, id, string(rune(codec.SchemaVersion)), payload)
	return err
}

func (s *SQLiteStore) GetValueTable(ctx context.Context, id string) (map[model.StateAction]float64, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM value_tables WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	values, err := codec.Load(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode value table %s: %w", id, err)
	}
	return values, true, nil
}

func (s *SQLiteStore) SaveGameRecord(ctx context.Context, record model.GameRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO game_records (run_id, game, turns, ships, halite)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, game) DO UPDATE SET
			turns = excluded.turns,
			ships = excluded.ships,
			halite = excluded.halite
	`, record.RunID, record.Game, record.Turns, record.Ships, record.Halite)
	return err
}

func (s *SQLiteStore) GetGameRecords(ctx context.Context, runID string) ([]model.GameRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, game, turns, ships, halite
		FROM game_records
		WHERE run_id = ?
		ORDER BY game
	`, runID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var records []model.GameRecord
	for rows.Next() {
		var record model.GameRecord
		if err := rows.Scan(&record.RunID, &record.Game, &record.Turns, &record.Ships, &record.Halite); err != nil {
			return nil, false, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS value_tables (
			id TEXT PRIMARY KEY,
			schema_version TEXT NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS game_records (
			run_id TEXT NOT NULL,
			game INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			ships INTEGER NOT NULL,
			halite INTEGER NOT NULL,
			PRIMARY KEY (run_id, game)
		);
	`)
	return err
}
