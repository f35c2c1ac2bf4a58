package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db *sql.DB
}

var _ Store = (*SQLiteDB)(nil)

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// One connection keeps :memory: databases intact and serialises writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func dsn(path string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if path == ":memory:" {
		return "file::memory:?" + params
	}
	return "file:" + path + "?" + params
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL CHECK (role IN ('organiser', 'donor')),
			profile_picture TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			date_joined DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS disasters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			organiser_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			location TEXT NOT NULL,
			urgency_level TEXT NOT NULL CHECK (urgency_level IN ('low', 'medium', 'high')),
			image TEXT NOT NULL DEFAULT '',
			posted_at DATETIME NOT NULL,
			bank_account_name TEXT NOT NULL,
			bank_account_number TEXT NOT NULL,
			ifsc_code TEXT NOT NULL,
			upi_id TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (organiser_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS donations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			donor_id INTEGER NOT NULL,
			disaster_id INTEGER NOT NULL,
			method TEXT NOT NULL CHECK (method IN ('automatic', 'manual')),
			amount INTEGER NOT NULL CHECK (amount > 0),
			transaction_id TEXT NOT NULL DEFAULT '',
			proof_image TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			donated_at DATETIME NOT NULL,
			FOREIGN KEY (donor_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (disaster_id) REFERENCES disasters(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sender_id INTEGER NOT NULL,
			recipient_id INTEGER NOT NULL,
			disaster_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			FOREIGN KEY (sender_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (recipient_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (disaster_id) REFERENCES disasters(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			donor_id INTEGER NOT NULL,
			organiser_id INTEGER NOT NULL,
			disaster_id INTEGER NOT NULL,
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT NOT NULL DEFAULT '',
			submitted_at DATETIME NOT NULL,
			FOREIGN KEY (donor_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (organiser_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (disaster_id) REFERENCES disasters(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS revoked_tokens (
			token_id TEXT PRIMARY KEY,
			expires_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_disasters_organiser_id ON disasters(organiser_id);
		CREATE INDEX IF NOT EXISTS idx_disasters_posted_at ON disasters(posted_at);
		CREATE INDEX IF NOT EXISTS idx_donations_donor_id ON donations(donor_id);
		CREATE INDEX IF NOT EXISTS idx_donations_disaster_id ON donations(disaster_id);
		CREATE INDEX IF NOT EXISTS idx_messages_disaster_id ON messages(disaster_id, timestamp);
		CREATE INDEX IF NOT EXISTS idx_messages_recipient_id ON messages(recipient_id);
		CREATE INDEX IF NOT EXISTS idx_feedback_organiser_id ON feedback(organiser_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// stamp returns t in UTC, or the current time when t is zero.
func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// where joins conditions into a WHERE clause; empty when there are none.
func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
