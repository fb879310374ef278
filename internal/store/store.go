// Package store implements the local SQLite transcript archive. The
// reconciler writes every appended message through it, and the history
// command reads it back offline.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/volkanakbulut73/sohbetchat3/internal/types"
)

// Store archives messages per room. Append-only: records are never updated
// or deleted, and re-inserting a known message id is a no-op.
type Store struct {
	db *sql.DB
}

// New store at the given path.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			room TEXT NOT NULL,
			sender_id TEXT NOT NULL,
			sender_name TEXT NOT NULL,
			sender_avatar TEXT NOT NULL,
			text TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			is_user INTEGER NOT NULL,
			image TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS messages_room_idx ON messages (room);
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating messages table")
	}

	return &Store{db: db}, nil
}

// SaveMessage archives a message. Idempotent by message id.
func (s *Store) SaveMessage(roomID string, message types.Message) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO messages
			(id, room, sender_id, sender_name, sender_avatar, text, timestamp, is_user, image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, message.ID, roomID, message.SenderID, message.SenderName, message.SenderAvatar,
		message.Text, message.Timestamp.UnixMicro(), message.IsUser, message.Image)
	if err != nil {
		return errors.Wrap(err, "writing message to database")
	}
	return nil
}

// ListRoomMessages returns a room's archived messages in arrival order.
// A non-positive limit returns everything.
func (s *Store) ListRoomMessages(roomID string, limit int) ([]types.Message, error) {
	query := `
		SELECT id, sender_id, sender_name, sender_avatar, text, timestamp, is_user, image
		FROM messages WHERE room = ? ORDER BY rowid ASC
	`
	args := []any{roomID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	defer rows.Close()

	var messages []types.Message
	for rows.Next() {
		var message types.Message
		var timestamp int64
		if err := rows.Scan(
			&message.ID, &message.SenderID, &message.SenderName, &message.SenderAvatar,
			&message.Text, &timestamp, &message.IsUser, &message.Image,
		); err != nil {
			return nil, errors.Wrap(err, "scanning message row")
		}
		message.Timestamp = time.UnixMicro(timestamp)
		messages = append(messages, message)
	}
	return messages, errors.Wrap(rows.Err(), "iterating message rows")
}

// Rooms returns the ids of all archived rooms.
func (s *Store) Rooms() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT room FROM messages ORDER BY room`)
	if err != nil {
		return nil, errors.Wrap(err, "querying rooms")
	}
	defer rows.Close()

	var rooms []string
	for rows.Next() {
		var room string
		if err := rows.Scan(&room); err != nil {
			return nil, errors.Wrap(err, "scanning room row")
		}
		rooms = append(rooms, room)
	}
	return rooms, errors.Wrap(rows.Err(), "iterating room rows")
}

// Close the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
