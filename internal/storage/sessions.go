package storage

import (
	"database/sql"
	"time"

	"holiday-planner/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// SessionDB stores login sessions of the HTTP API in SQLite.
type SessionDB struct {
	conn *sql.DB
}

// NewSessionDB opens a database connection and runs migrations.
func NewSessionDB(path string) (*SessionDB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	db := &SessionDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *SessionDB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			last_activity INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sessions_username ON sessions(username)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (db *SessionDB) Close() error {
	return db.conn.Close()
}

// CreateSession creates a new session for a user.
func (db *SessionDB) CreateSession(token, username string, expiresAt time.Time) error {
	now := time.Now()
	_, err := db.conn.Exec(
		"INSERT INTO sessions (token, username, expires_at, last_activity) VALUES (?, ?, ?, ?)",
		token, username, expiresAt.UnixNano(), now.UnixNano(),
	)
	return err
}

// ValidateSession checks if a session token is valid and returns its username.
func (db *SessionDB) ValidateSession(token string) (string, error) {
	info, err := db.ValidateSessionWithInfo(token)
	if err != nil {
		return "", err
	}
	return info.Username, nil
}

// ValidateSessionWithInfo checks if a session token is valid and returns
// session details. Unknown and expired tokens yield sql.ErrNoRows.
func (db *SessionDB) ValidateSessionWithInfo(token string) (*models.Session, error) {
	row := db.conn.QueryRow(`
		SELECT token, username, expires_at, last_activity
		FROM sessions
		WHERE token = ? AND expires_at > ?
	`, token, time.Now().UnixNano())

	var s models.Session
	var expiresAt, lastActivity int64
	if err := row.Scan(&s.Token, &s.Username, &expiresAt, &lastActivity); err != nil {
		return nil, err
	}
	s.ExpiresAt = time.Unix(0, expiresAt)
	s.LastActivity = time.Unix(0, lastActivity)
	return &s, nil
}

// RenewSession updates the last_activity and expires_at for a session.
func (db *SessionDB) RenewSession(token string, newExpiresAt time.Time) error {
	now := time.Now()
	_, err := db.conn.Exec(
		"UPDATE sessions SET last_activity = ?, expires_at = ? WHERE token = ?",
		now.UnixNano(), newExpiresAt.UnixNano(), token,
	)
	return err
}

// DeleteSession removes a session by token.
func (db *SessionDB) DeleteSession(token string) error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// CleanExpiredSessions removes all expired sessions and returns how many
// were removed.
func (db *SessionDB) CleanExpiredSessions() (int64, error) {
	res, err := db.conn.Exec("DELETE FROM sessions WHERE expires_at <= ?", time.Now().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
