package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const slotsSchema = `CREATE TABLE IF NOT EXISTS slots (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at INTEGER NOT NULL
)`

// SQLiteSlot stores the slot value as a row in a key-value table, for
// setups where the task collection lives next to other application data.
type SQLiteSlot struct {
	db  *sql.DB
	key string
	sq  squirrel.StatementBuilderType
	now func() time.Time
}

// NewSQLiteSlot opens (creating if needed) the database at dbPath and
// binds the slot to key.
func NewSQLiteSlot(dbPath, key string) (*SQLiteSlot, error) {
	if key == "" {
		key = DefaultKey
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil && !strings.Contains(err.Error(), "database is locked") {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	// Single writer connection for SQLite
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(slotsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create slots table: %w", err)
	}

	return &SQLiteSlot{
		db:  db,
		key: key,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		now: time.Now,
	}, nil
}

// Read implements Slot.Read.
func (s *SQLiteSlot) Read() ([]byte, error) {
	query, args, err := s.sq.Select("value").From("slots").Where(squirrel.Eq{"key": s.key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var value []byte
	if err := s.db.QueryRow(query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("failed to read slot %q: %w", s.key, err)
	}
	if len(value) == 0 {
		return nil, ErrSlotEmpty
	}
	return value, nil
}

// Write implements Slot.Write.
func (s *SQLiteSlot) Write(data []byte) error {
	query, args, err := s.sq.Insert("slots").
		Columns("key", "value", "updated_at").
		Values(s.key, data, s.now().UnixMilli()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert: %w", err)
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", s.key, err)
	}
	return nil
}

// Close implements Slot.Close.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
