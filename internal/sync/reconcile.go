package sync

import "github.com/nhle/fapm/internal/model"

// Plan is the work a sync has to do after comparing indexes.
type Plan struct {
	// New lists remote messages missing from the archive.
	New []model.IndexEntry

	// Moved lists archived messages whose remote folder changed. Folder
	// holds the new, remote folder.
	Moved []model.IndexEntry

	// Unchanged counts remote messages already archived in the same folder.
	Unchanged int
}

// Empty reports whether there is nothing to fetch or move.
func (p Plan) Empty() bool {
	return len(p.New) == 0 && len(p.Moved) == 0
}

// Reconcile compares the remote index against the local one. Entries
// keep the remote scan order.
func Reconcile(remote *model.RemoteIndex, local model.LocalIndex) Plan {
	var plan Plan
	for _, entry := range remote.Entries() {
		known, ok := local[entry.ID]
		switch {
		case !ok:
			plan.New = append(plan.New, entry)
		case known != entry.Folder:
			plan.Moved = append(plan.Moved, entry)
		default:
			plan.Unchanged++
		}
	}
	return plan
}
