package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/meetwire-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS meetings (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	host_id    INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	meeting_id TEXT NOT NULL,
	user_id    INTEGER NOT NULL,
	user_name  TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_meeting
	ON chat_messages (meeting_id, created_at, id);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply an alternative schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== MessageStore implementation ====

// SaveMessage appends a chat message and assigns its monotonic ID.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	query := `
		INSERT INTO chat_messages (meeting_id, user_id, user_name, body, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, msg.MeetingID, msg.UserID, msg.UserName, msg.Body, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	msg.ID = id
	return nil
}

// ListMessages retrieves messages for a meeting in ascending
// (created_at, id) order. The id is the tiebreak when two messages
// share a timestamp.
func (s *SQLiteStore) ListMessages(ctx context.Context, meetingID string, limit int, beforeID *int64) ([]*store.Message, error) {
	var query string
	var args []interface{}

	if beforeID != nil {
		query = `
			SELECT id, meeting_id, user_id, user_name, body, created_at
			FROM chat_messages
			WHERE meeting_id = ? AND id < ?
			ORDER BY created_at ASC, id ASC
			LIMIT ?
		`
		args = []interface{}{meetingID, *beforeID, limit}
	} else {
		query = `
			SELECT id, meeting_id, user_id, user_name, body, created_at
			FROM chat_messages
			WHERE meeting_id = ?
			ORDER BY created_at ASC, id ASC
			LIMIT ?
		`
		args = []interface{}{meetingID, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []*store.Message
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.ID, &msg.MeetingID, &msg.UserID, &msg.UserName, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

// ==== MeetingStore implementation ====

// MeetingExists reports whether a meeting with the given id exists.
func (s *SQLiteStore) MeetingExists(ctx context.Context, id string) (bool, error) {
	query := `SELECT 1 FROM meetings WHERE id = ?`
	var exists int
	err := s.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query meeting: %w", err)
	}
	return true, nil
}

// GetMeeting retrieves a meeting by ID.
func (s *SQLiteStore) GetMeeting(ctx context.Context, id string) (*store.Meeting, error) {
	query := `
		SELECT id, title, host_id, created_at
		FROM meetings
		WHERE id = ?
	`
	var m store.Meeting
	err := s.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Title, &m.HostID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("meeting %q: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query meeting: %w", err)
	}

	return &m, nil
}

// CreateMeeting inserts a meeting record.
func (s *SQLiteStore) CreateMeeting(ctx context.Context, m *store.Meeting) error {
	query := `
		INSERT INTO meetings (id, title, host_id)
		VALUES (?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, m.ID, m.Title, m.HostID); err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

// Ensure SQLiteStore implements store.Store
var _ store.Store = (*SQLiteStore)(nil)
