package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// RoundRow is one finished round: who let the ball out and where
type RoundRow struct {
	ID        int64     `json:"id"`
	LoserID   int       `json:"loserID"`
	LoserName string    `json:"loserName,omitempty"`
	ExitAngle float64   `json:"exitAngle"`
	Players   int       `json:"players"`
	CreatedAt time.Time `json:"createdAt"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// WAL lets the stats endpoint read while the analytics writer commits
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		loser_id INTEGER NOT NULL,
		loser_name TEXT NOT NULL DEFAULT '',
		exit_angle REAL NOT NULL,
		players INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id INTEGER,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analytics_type_time ON analytics_events(event_type, created_at);
	CREATE INDEX IF NOT EXISTS idx_rounds_time ON rounds(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecentRounds returns the newest rounds first
func (db *DB) RecentRounds(limit int) ([]RoundRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, loser_id, loser_name, exit_angle, players, created_at
		FROM rounds ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RoundRow
	for rows.Next() {
		var r RoundRow
		var created string
		if err := rows.Scan(&r.ID, &r.LoserID, &r.LoserName, &r.ExitAngle, &r.Players, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		result = append(result, r)
	}
	return result, rows.Err()
}

// RoundCount returns the number of rounds ever recorded
func (db *DB) RoundCount() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM rounds`).Scan(&count)
	return count, err
}

// LossesByPlayerName counts recorded losses per registered name
func (db *DB) LossesByPlayerName(limit int) (map[string]int, error) {
	rows, err := db.conn.Query(`
		SELECT loser_name, COUNT(*) FROM rounds
		WHERE loser_name != ''
		GROUP BY loser_name ORDER BY COUNT(*) DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		result[name] = count
	}
	return result, rows.Err()
}
