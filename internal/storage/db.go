package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cptspacemanspiff/gamma-daemon/internal/collector"
	"github.com/cptspacemanspiff/gamma-daemon/internal/daemon"
)

const schema = `
CREATE TABLE IF NOT EXISTS brightness_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	status TEXT NOT NULL,
	ac_plugged INTEGER NOT NULL,
	charge_pct REAL NOT NULL,
	value INTEGER NOT NULL,
	applied INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_brightness_ts ON brightness_events(timestamp);
`

const decisionColumns = "timestamp, status, ac_plugged, charge_pct, value, applied, error"

// DB wraps a SQLite database of brightness decisions.
type DB struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Record stores a decision; it lets the DB act as a loop recorder.
func (d *DB) Record(dec daemon.Decision) error {
	return d.InsertDecision(dec)
}

// InsertDecision inserts a brightness decision.
func (d *DB) InsertDecision(dec daemon.Decision) error {
	_, err := d.db.Exec(
		"INSERT INTO brightness_events ("+decisionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		dec.Timestamp, dec.Status.String(), boolToInt(dec.ACPlugged), dec.ChargePct, dec.Value, boolToInt(dec.Applied), dec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// LatestDecision returns the most recent decision, or nil if there is none.
func (d *DB) LatestDecision() (*daemon.Decision, error) {
	row := d.db.QueryRow("SELECT " + decisionColumns + " FROM brightness_events ORDER BY timestamp DESC, id DESC LIMIT 1")
	dec, err := scanDecision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dec, nil
}

// DecisionsInRange returns decisions within the given time range, oldest first.
func (d *DB) DecisionsInRange(from, to int64) ([]daemon.Decision, error) {
	rows, err := d.db.Query(
		"SELECT "+decisionColumns+" FROM brightness_events WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp, id",
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var decisions []daemon.Decision
	for rows.Next() {
		dec, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, dec)
	}
	return decisions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(s scanner) (daemon.Decision, error) {
	var (
		dec       daemon.Decision
		status    string
		acPlugged int
		applied   int
	)
	if err := s.Scan(&dec.Timestamp, &status, &acPlugged, &dec.ChargePct, &dec.Value, &applied, &dec.Error); err != nil {
		return daemon.Decision{}, err
	}
	dec.Status = collector.ParseStatus(status)
	dec.ACPlugged = acPlugged != 0
	dec.Applied = applied != 0
	return dec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
