package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/fapm/internal/model"
)

// TransportError is returned when a request kept failing after every
// allowed attempt. It is fatal to the run.
type TransportError struct {
	Method   string
	Path     string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf(
		"%s %s failed after %d attempts: %v",
		e.Method, e.Path, e.Attempts, e.Err,
	)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err (or any error in its chain) is a
// TransportError.
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// ExtractionError indicates that a required field could not be found in
// a fetched page. This usually means the markup changed or the session
// expired and a login page was served instead.
type ExtractionError struct {
	Field string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("cannot extract %s from page", e.Field)
}

// IsExtractionError reports whether err (or any error in its chain) is an
// ExtractionError.
func IsExtractionError(err error) bool {
	var extractionErr *ExtractionError
	return errors.As(err, &extractionErr)
}

// Scanner builds the remote message index.
type Scanner interface {
	// Scan pages through every listing of folders and returns the ids
	// found together with those flagged unread.
	Scan(
		ctx context.Context,
		creds model.Credentials,
		folders []model.Folder,
	) (*model.RemoteIndex, error)
}

// Source fetches and manipulates individual messages.
type Source interface {
	// FetchMessage downloads and parses a single message.
	FetchMessage(
		ctx context.Context,
		creds model.Credentials,
		entry model.IndexEntry,
	) (*model.Message, error)

	// MarkUnread flags ids in folder as unread again on the forum.
	MarkUnread(
		ctx context.Context,
		creds model.Credentials,
		folder model.Folder,
		ids []int64,
	) error
}
