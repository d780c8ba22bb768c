package store

import (
	"context"
	"errors"

	"github.com/nhle/fapm/internal/model"
)

// ErrNotFound is returned when a requested message does not exist.
var ErrNotFound = errors.New("not found")

// ContactSummary is one row of the contact listing.
type ContactSummary struct {
	Username     string `db:"username"`
	MessageCount int    `db:"message_count"`
	LastID       int64  `db:"last_id"`

	// LastTimestamp and LastSubject describe the message with LastID.
	LastTimestamp int64   `db:"last_timestamp"`
	LastSubject   *string `db:"last_subject"`
}

// Store defines the persistence interface for archived messages and
// sync history. Every write runs in its own transaction.
type Store interface {
	// === Sync collaborator ===

	// IndexedMessages returns the folder of every archived message.
	IndexedMessages(ctx context.Context) (model.LocalIndex, error)

	// SaveMessage inserts a newly fetched message.
	SaveMessage(ctx context.Context, msg model.Message) error

	// UpdateFolder records that a message moved to another folder.
	UpdateFolder(ctx context.Context, id int64, folder model.Folder) error

	// === Reading the archive ===

	GetMessage(ctx context.Context, id int64) (*model.Message, error)
	CountMessages(ctx context.Context) (map[model.Folder]int, error)
	Contacts(ctx context.Context) ([]ContactSummary, error)
	Conversation(ctx context.Context, contact string) ([]model.Message, error)
	AllMessages(ctx context.Context) ([]model.Message, error)

	// === Sync history ===

	RecordSyncRun(ctx context.Context, run model.SyncRun) error
	LastSyncRun(ctx context.Context) (*model.SyncRun, error)
}
