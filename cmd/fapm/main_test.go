package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/fapm/internal/model"
	"github.com/nhle/fapm/internal/store"
)

// seedArchive creates a database holding a short conversation.
func seedArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.db")
	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)

	subject := "RE: Commission"
	reply := "RE: Thanks"
	ctx := context.Background()
	for _, m := range []model.Message{
		{ID: 1, Folder: model.FolderInbox, Subject: &subject, Timestamp: 1641395640,
			Sender: "Alice", Receiver: "me", Text: "hello"},
		{ID: 2, Folder: model.FolderSent, Sent: true, Subject: &reply, Timestamp: 1641399240,
			Sender: "me", Receiver: "Alice", Text: "hi back"},
		{ID: 3, Folder: model.FolderTrash, Timestamp: 1641402840,
			Sender: "bob", Receiver: "me", Text: "spam"},
	} {
		require.NoError(t, s.SaveMessage(ctx, m))
	}
	require.NoError(t, s.Close())
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := newApp(io.Discard)
	root := newRootCmd(a)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestContactsCommand(t *testing.T) {
	db := seedArchive(t)
	out, err := run(t, "--db", db, "contacts")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "2 messages")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "1 message")
}

func TestContactsShowLatestMessage(t *testing.T) {
	t.Setenv("FAPM_FORUM_TIMEZONE", "UTC")
	db := seedArchive(t)

	out, err := run(t, "--db", db, "contacts")
	require.NoError(t, err)
	assert.Contains(t, out, "2022-01-05 16:14")
	assert.Contains(t, out, "Thanks")
	assert.NotContains(t, out, "RE: Thanks")
	assert.Contains(t, out, "2022-01-05 17:14")
	assert.Contains(t, out, "no subject")
	assert.Less(t, strings.Index(out, "Alice"), strings.Index(out, "bob"), "alphabetical by default")

	out, err = run(t, "--db", db, "contacts", "--sort-by-time")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "bob"), strings.Index(out, "Alice"), "newest conversation first")

	out, err = run(t, "--db", db, "contacts", "-t", "--keep-re")
	require.NoError(t, err)
	assert.Contains(t, out, "RE: Thanks")
}

func TestShowCommand(t *testing.T) {
	db := seedArchive(t)
	out, err := run(t, "--db", db, "show", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "hi back")
	assert.NotContains(t, out, "spam")
	assert.NotContains(t, out, "RE: Commission")

	out, err = run(t, "--db", db, "show", "--keep-re", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "RE: Commission")

	_, err = run(t, "--db", db, "show", "nobody")
	assert.ErrorIs(t, err, errNoMessages)
}

func TestStatusCommand(t *testing.T) {
	db := seedArchive(t)
	out, err := run(t, "--db", db, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Inbox")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "Never synced.")
}

func TestExportCommand(t *testing.T) {
	db := seedArchive(t)
	file := filepath.Join(t.TempDir(), "archive.mbox")
	out, err := run(t, "--db", db, "export", file)
	require.NoError(t, err)
	assert.Contains(t, out, "3 messages written")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count(data, []byte("\nFrom "))+boolToInt(bytes.HasPrefix(data, []byte("From "))))
}

func TestSyncRejectsBadArguments(t *testing.T) {
	db := filepath.Join(t.TempDir(), "messages.db")

	_, err := run(t, "--db", db, "sync", "-f", "drafts")
	require.Error(t, err)
	assert.Equal(t, exitValidation, exitCode(err))

	_, err = run(t, "--db", db, "sync", "-p", "-1")
	require.Error(t, err)
	assert.Equal(t, exitValidation, exitCode(err))
}

func TestBadLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "status")
	assert.Equal(t, exitValidation, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitFailure, exitCode(errors.New("boom")))
	assert.Equal(t, exitValidation, exitCode(&model.ValidationError{Field: "folder", Msg: "bad"}))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
