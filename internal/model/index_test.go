package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteIndex(t *testing.T) {
	r := NewRemoteIndex()
	r.Add(3, FolderInbox)
	r.Add(1, FolderArchive)
	r.Add(3, FolderTrash)
	r.MarkUnread(1, FolderArchive)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []IndexEntry{
		{ID: 3, Folder: FolderTrash},
		{ID: 1, Folder: FolderArchive},
	}, r.Entries())

	folder, ok := r.Folder(3)
	assert.True(t, ok)
	assert.Equal(t, FolderTrash, folder)
	_, ok = r.Folder(99)
	assert.False(t, ok)

	assert.True(t, r.IsUnread(1))
	assert.False(t, r.IsUnread(3))
	assert.Equal(t, 1, r.UnreadCount())

	entries := r.Entries()
	entries[0].Folder = FolderSent
	folder, _ = r.Folder(3)
	assert.Equal(t, FolderTrash, folder, "Entries returns a copy")
}

func TestCredentialsCookie(t *testing.T) {
	c := NewCredentials("aaa", "bbb")
	assert.Equal(t, "a=aaa; b=bbb; folder=sent", c.Cookie(FolderSent))
	assert.False(t, c.IsZero())
	assert.True(t, Credentials{}.IsZero())
}
