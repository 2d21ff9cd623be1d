// Package persistence provides SQLite-backed game storage: whole-state
// snapshots, the replayable action log, and the postmortem archive. The
// entire WorldState travels as one JSON document per snapshot.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/empires-beyond/internal/engine"
)

// DB wraps a SQLite connection for game persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		turn INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS actions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		action_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS postmortems (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		habitat TEXT NOT NULL,
		owner TEXT NOT NULL,
		cause TEXT NOT NULL,
		record_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_turn ON snapshots(turn);
	CREATE INDEX IF NOT EXISTS idx_actions_turn ON actions(turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSnapshot stores the full world state under a fresh snapshot ID.
func (db *DB) SaveSnapshot(ws *engine.WorldState) error {
	raw, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT INTO snapshots (id, turn, created_at, state_json) VALUES (?, ?, ?, ?)",
		uuid.NewString(), ws.Turn, time.Now().UTC().Format(time.RFC3339), string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	slog.Debug("snapshot saved", "turn", ws.Turn)
	return nil
}

// LatestSnapshot loads the most recent snapshot, or nil when none exists.
func (db *DB) LatestSnapshot() (*engine.WorldState, error) {
	var raw string
	err := db.conn.Get(&raw,
		"SELECT state_json FROM snapshots ORDER BY turn DESC, created_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var ws engine.WorldState
	if err := json.Unmarshal([]byte(raw), &ws); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &ws, nil
}

// AppendAction records one applied action in the replay log.
func (db *DB) AppendAction(turn int, a engine.Action) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal action: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT INTO actions (turn, action_json) VALUES (?, ?)",
		turn, string(raw),
	)
	return err
}

// ActionLog returns every recorded action in application order.
func (db *DB) ActionLog() ([]engine.Action, error) {
	var rows []string
	if err := db.conn.Select(&rows, "SELECT action_json FROM actions ORDER BY seq"); err != nil {
		return nil, err
	}
	out := make([]engine.Action, 0, len(rows))
	for _, raw := range rows {
		var a engine.Action
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("unmarshal action: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// SavePostmortems appends any postmortems past the already-archived count.
// The in-state history is append-only, so the row count is a cursor.
func (db *DB) SavePostmortems(records []engine.Postmortem) error {
	var archived int
	if err := db.conn.Get(&archived, "SELECT COUNT(*) FROM postmortems"); err != nil {
		return err
	}
	if archived >= len(records) {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, pm := range records[archived:] {
		raw, err := json.Marshal(pm)
		if err != nil {
			return fmt.Errorf("marshal postmortem: %w", err)
		}
		_, err = tx.Exec(
			"INSERT INTO postmortems (turn, habitat, owner, cause, record_json) VALUES (?, ?, ?, ?, ?)",
			pm.Turn, pm.Habitat, pm.Owner, pm.Cause, string(raw),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", key, value)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
