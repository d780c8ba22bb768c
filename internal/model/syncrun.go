package model

import "time"

// SyncRun summarizes one completed synchronization.
type SyncRun struct {
	// ID is the unique identifier for this run.
	ID string `db:"id" json:"id"`

	// Folders is the comma separated list of folders that were scanned.
	Folders string `db:"folders" json:"folders"`

	// Pages is the number of listing pages fetched.
	Pages int `db:"pages" json:"pages"`

	// Scanned is the number of distinct ids found remotely.
	Scanned int `db:"scanned" json:"scanned"`

	NewCount      int `db:"new_count" json:"new_count"`
	MovedCount    int `db:"moved_count" json:"moved_count"`
	RestoredCount int `db:"restored_count" json:"restored_count"`

	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}
