package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/cases"

	"github.com/nhle/fapm/internal/model"
)

const messageColumns = `id, folder, sent, subject, timestamp, sender, receiver, text, fetched_at`

// IndexedMessages returns the folder of every archived message, keyed by id.
func (s *SQLiteStore) IndexedMessages(ctx context.Context) (model.LocalIndex, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT id, folder FROM message ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying message index: %w", err)
	}
	defer rows.Close()

	index := make(model.LocalIndex)
	for rows.Next() {
		var (
			id     int64
			folder string
		)
		if err := rows.Scan(&id, &folder); err != nil {
			return nil, fmt.Errorf("scanning message index row: %w", err)
		}
		index[id] = model.Folder(folder)
	}

	return index, rows.Err()
}

// SaveMessage inserts a newly fetched message in its own transaction.
// Messages are created once; saving an existing id is an error.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg model.Message) error {
	if msg.ID <= 0 {
		return fmt.Errorf("saving message: invalid id %d", msg.ID)
	}
	if msg.FetchedAt.IsZero() {
		msg.FetchedAt = time.Now()
	}

	var subject *string
	if msg.Subject != nil && *msg.Subject != "" {
		subject = msg.Subject
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO message (`+messageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, string(msg.Folder), boolToInt(msg.Sent), subject,
		msg.Timestamp, msg.Sender, msg.Receiver, msg.Text,
		msg.FetchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving message %d: %w", msg.ID, err)
	}

	return tx.Commit()
}

// UpdateFolder moves an archived message to folder in its own transaction.
// Only the folder changes; the sent flag is left as first recorded.
func (s *SQLiteStore) UpdateFolder(ctx context.Context, id int64, folder model.Folder) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE message SET folder = ? WHERE id = ?", string(folder), id,
	)
	if err != nil {
		return fmt.Errorf("moving message %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("moving message %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("moving message %d: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// GetMessage retrieves a single message by id.
func (s *SQLiteStore) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	var msg model.Message
	err := s.db.GetContext(ctx, &msg,
		"SELECT "+messageColumns+" FROM message WHERE id = ?", id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting message %d: %w", id, err)
	}
	return &msg, nil
}

// CountMessages returns the number of archived messages per folder.
func (s *SQLiteStore) CountMessages(ctx context.Context) (map[model.Folder]int, error) {
	var rows []struct {
		Folder string `db:"folder"`
		Count  int    `db:"count"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT folder, COUNT(*) AS count FROM message GROUP BY folder",
	)
	if err != nil {
		return nil, fmt.Errorf("counting messages: %w", err)
	}

	counts := make(map[model.Folder]int, len(rows))
	for _, r := range rows {
		counts[model.Folder(r.Folder)] = r.Count
	}
	return counts, nil
}

// Contacts returns every conversation partner together with their most
// recent message, sorted case-insensitively.
func (s *SQLiteStore) Contacts(ctx context.Context) ([]ContactSummary, error) {
	var contacts []ContactSummary
	err := s.db.SelectContext(ctx, &contacts, `
		SELECT c.username, c.message_count, c.last_id,
			m.timestamp AS last_timestamp, m.subject AS last_subject
		FROM (
			SELECT username, COUNT(*) AS message_count, MAX(id) AS last_id
			FROM (
				SELECT CASE WHEN sent = 1 THEN receiver ELSE sender END AS username, id
				FROM message
			)
			GROUP BY username
		) AS c
		JOIN message AS m ON m.id = c.last_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}

	fold := cases.Fold()
	sort.SliceStable(contacts, func(i, j int) bool {
		a, b := fold.String(contacts[i].Username), fold.String(contacts[j].Username)
		if a != b {
			return a < b
		}
		return contacts[i].Username < contacts[j].Username
	})

	return contacts, nil
}

// SortContactsByLatest orders contacts by their most recent message,
// newest first.
func SortContactsByLatest(contacts []ContactSummary) {
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].LastID > contacts[j].LastID
	})
}

// Conversation returns every message exchanged with contact, oldest first.
func (s *SQLiteStore) Conversation(ctx context.Context, contact string) ([]model.Message, error) {
	var messages []model.Message
	err := s.db.SelectContext(ctx, &messages,
		"SELECT "+messageColumns+" FROM message WHERE sender = ? OR receiver = ? ORDER BY id",
		contact, contact,
	)
	if err != nil {
		return nil, fmt.Errorf("querying conversation with %s: %w", contact, err)
	}
	return messages, nil
}

// AllMessages returns the whole archive ordered by id.
func (s *SQLiteStore) AllMessages(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	err := s.db.SelectContext(ctx, &messages,
		"SELECT "+messageColumns+" FROM message ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	return messages, nil
}
