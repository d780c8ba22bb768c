package model

// IndexEntry is a single message id and the folder it was seen in.
type IndexEntry struct {
	ID     int64
	Folder Folder
}

// LocalIndex maps archived message ids to their recorded folder.
type LocalIndex map[int64]Folder

// RemoteIndex is the id to folder mapping built by scanning the forum's
// folder listings. Entries keep the order in which they were scanned.
type RemoteIndex struct {
	// PagesScanned counts the listing pages fetched to build the index.
	PagesScanned int

	entries  []IndexEntry
	position map[int64]int
	unread   map[int64]Folder
}

// NewRemoteIndex returns an empty RemoteIndex.
func NewRemoteIndex() *RemoteIndex {
	return &RemoteIndex{
		position: make(map[int64]int),
		unread:   make(map[int64]Folder),
	}
}

// Add records id under folder. An id seen again keeps its original
// position but takes the newer folder.
func (r *RemoteIndex) Add(id int64, folder Folder) {
	if i, ok := r.position[id]; ok {
		r.entries[i].Folder = folder
		return
	}
	r.position[id] = len(r.entries)
	r.entries = append(r.entries, IndexEntry{ID: id, Folder: folder})
}

// MarkUnread flags id as unread in folder.
func (r *RemoteIndex) MarkUnread(id int64, folder Folder) {
	r.unread[id] = folder
}

// Folder returns the folder recorded for id.
func (r *RemoteIndex) Folder(id int64) (Folder, bool) {
	i, ok := r.position[id]
	if !ok {
		return "", false
	}
	return r.entries[i].Folder, true
}

// IsUnread reports whether id was flagged unread during the scan.
func (r *RemoteIndex) IsUnread(id int64) bool {
	_, ok := r.unread[id]
	return ok
}

// Entries returns the scanned entries in scan order.
func (r *RemoteIndex) Entries() []IndexEntry {
	out := make([]IndexEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of distinct ids.
func (r *RemoteIndex) Len() int {
	return len(r.entries)
}

// UnreadCount returns the number of ids flagged unread.
func (r *RemoteIndex) UnreadCount() int {
	return len(r.unread)
}
