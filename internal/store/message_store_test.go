package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/fapm/internal/model"
	"github.com/nhle/fapm/internal/store"
	"github.com/nhle/fapm/internal/testutil"
)

func strPtr(s string) *string { return &s }

func newMessage(id int64, folder model.Folder, sent bool, sender, receiver string) model.Message {
	return model.Message{
		ID:        id,
		Folder:    folder,
		Sent:      sent,
		Subject:   strPtr("hello"),
		Timestamp: 1641400000 + id,
		Sender:    sender,
		Receiver:  receiver,
		Text:      "body of " + sender,
	}
}

func TestSaveMessageRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	msg := model.Message{
		ID:        101,
		Folder:    model.FolderInbox,
		Sent:      false,
		Subject:   strPtr("RE: commission"),
		Timestamp: 1641396840,
		Sender:    "Alice",
		Receiver:  "owner",
		Text:      `Hi there<br />[QUOTE]old[/QUOTE]`,
		FetchedAt: time.Date(2022, 1, 11, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveMessage(ctx, msg))

	got, err := s.GetMessage(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, msg.Folder, got.Folder)
	assert.Equal(t, msg.Sent, got.Sent)
	require.NotNil(t, got.Subject)
	assert.Equal(t, *msg.Subject, *got.Subject)
	assert.Equal(t, msg.Timestamp, got.Timestamp)
	assert.Equal(t, msg.Sender, got.Sender)
	assert.Equal(t, msg.Receiver, got.Receiver)
	assert.Equal(t, msg.Text, got.Text)
	assert.True(t, msg.FetchedAt.Equal(got.FetchedAt))
}

func TestSaveMessageNilSubject(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	msg := newMessage(7, model.FolderSent, true, "owner", "Bob")
	msg.Subject = strPtr("")
	require.NoError(t, s.SaveMessage(ctx, msg))

	got, err := s.GetMessage(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got.Subject)
	assert.True(t, got.Sent)
}

func TestSaveMessageDuplicateID(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	msg := newMessage(1, model.FolderInbox, false, "Alice", "owner")
	require.NoError(t, s.SaveMessage(ctx, msg))
	assert.Error(t, s.SaveMessage(ctx, msg))

	index, err := s.IndexedMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, index, 1)
}

func TestIndexedMessagesAndUpdateFolder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, newMessage(101, model.FolderInbox, false, "Alice", "owner")))
	require.NoError(t, s.SaveMessage(ctx, newMessage(102, model.FolderSent, true, "owner", "Alice")))

	require.NoError(t, s.UpdateFolder(ctx, 101, model.FolderTrash))

	index, err := s.IndexedMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.LocalIndex{
		101: model.FolderTrash,
		102: model.FolderSent,
	}, index)

	moved, err := s.GetMessage(ctx, 101)
	require.NoError(t, err)
	assert.False(t, moved.Sent, "moving must not change the sent flag")
}

func TestUpdateFolderMissing(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.UpdateFolder(context.Background(), 999, model.FolderArchive)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetMessageMissing(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetMessage(context.Background(), 5)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestContactsSortedCaseInsensitive(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, newMessage(1, model.FolderInbox, false, "zed", "owner")))
	require.NoError(t, s.SaveMessage(ctx, newMessage(2, model.FolderSent, true, "owner", "Bob")))
	require.NoError(t, s.SaveMessage(ctx, newMessage(3, model.FolderInbox, false, "alice", "owner")))
	require.NoError(t, s.SaveMessage(ctx, newMessage(4, model.FolderInbox, false, "Bob", "owner")))

	contacts, err := s.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 3)

	assert.Equal(t, "alice", contacts[0].Username)
	assert.Equal(t, "Bob", contacts[1].Username)
	assert.Equal(t, 2, contacts[1].MessageCount)
	assert.Equal(t, int64(4), contacts[1].LastID)
	assert.Equal(t, "zed", contacts[2].Username)
}

func TestContactsCarryLatestMessage(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	latest := newMessage(7, model.FolderSent, true, "owner", "Bob")
	latest.Subject = nil
	require.NoError(t, s.SaveMessage(ctx, newMessage(2, model.FolderInbox, false, "Bob", "owner")))
	require.NoError(t, s.SaveMessage(ctx, latest))
	require.NoError(t, s.SaveMessage(ctx, newMessage(5, model.FolderInbox, false, "alice", "owner")))

	contacts, err := s.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	bob := contacts[1]
	assert.Equal(t, "Bob", bob.Username)
	assert.Equal(t, int64(7), bob.LastID)
	assert.Equal(t, int64(1641400007), bob.LastTimestamp)
	assert.Nil(t, bob.LastSubject)

	alice := contacts[0]
	require.NotNil(t, alice.LastSubject)
	assert.Equal(t, "hello", *alice.LastSubject)

	store.SortContactsByLatest(contacts)
	assert.Equal(t, "Bob", contacts[0].Username)
	assert.Equal(t, "alice", contacts[1].Username)
}

func TestConversationOrderedByID(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, newMessage(30, model.FolderInbox, false, "Bob", "owner")))
	require.NoError(t, s.SaveMessage(ctx, newMessage(10, model.FolderSent, true, "owner", "Bob")))
	require.NoError(t, s.SaveMessage(ctx, newMessage(20, model.FolderInbox, false, "Carol", "owner")))

	conv, err := s.Conversation(ctx, "Bob")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, int64(10), conv[0].ID)
	assert.Equal(t, int64(30), conv[1].ID)
	for _, m := range conv {
		assert.Equal(t, "Bob", m.Contact())
	}
}

func TestCountMessages(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, newMessage(1, model.FolderInbox, false, "A", "owner")))
	require.NoError(t, s.SaveMessage(ctx, newMessage(2, model.FolderInbox, false, "B", "owner")))
	require.NoError(t, s.SaveMessage(ctx, newMessage(3, model.FolderArchive, false, "C", "owner")))

	counts, err := s.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[model.FolderInbox])
	assert.Equal(t, 1, counts[model.FolderArchive])
	assert.Equal(t, 0, counts[model.FolderTrash])
}

func TestSyncRuns(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	last, err := s.LastSyncRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	start := time.Date(2022, 1, 11, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordSyncRun(ctx, model.SyncRun{
		Folders: "inbox", NewCount: 1, StartedAt: start, FinishedAt: start.Add(time.Minute),
	}))
	require.NoError(t, s.RecordSyncRun(ctx, model.SyncRun{
		Folders: "inbox,trash", NewCount: 4, MovedCount: 2,
		StartedAt: start.Add(time.Hour), FinishedAt: start.Add(2 * time.Hour),
	}))

	last, err = s.LastSyncRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.NotEmpty(t, last.ID)
	assert.Equal(t, "inbox,trash", last.Folders)
	assert.Equal(t, 4, last.NewCount)
	assert.Equal(t, 2, last.MovedCount)
}
