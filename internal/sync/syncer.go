package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nhle/fapm/internal/model"
	"github.com/nhle/fapm/internal/source"
	"github.com/nhle/fapm/internal/store"
)

// Result describes what a completed sync did.
type Result struct {
	Run model.SyncRun

	// Fetched holds the newly archived messages in fetch order.
	Fetched []model.Message

	// Moved holds the folder changes that were applied.
	Moved []model.IndexEntry

	// Restored maps each folder to the ids marked unread again.
	Restored map[model.Folder][]int64
}

// NothingToDo reports whether the remote side had no changes.
func (r *Result) NothingToDo() bool {
	return len(r.Fetched) == 0 && len(r.Moved) == 0
}

// Syncer brings the local archive up to date with the forum. Work is
// strictly sequential: every request and every write happens one after
// the other, and the first error aborts the run.
type Syncer struct {
	store   store.Store
	scanner source.Scanner
	source  source.Source
	log     logrus.FieldLogger
	now     func() time.Time
}

// New creates a Syncer.
func New(s store.Store, scanner source.Scanner, src source.Source, log logrus.FieldLogger) *Syncer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Syncer{
		store:   s,
		scanner: scanner,
		source:  src,
		log:     log,
		now:     time.Now,
	}
}

// Run scans folders, archives new messages, applies folder moves, and
// restores the unread flag of received messages that were unread
// before they were fetched.
func (s *Syncer) Run(
	ctx context.Context,
	creds model.Credentials,
	folders []model.Folder,
) (*Result, error) {
	if len(folders) == 0 {
		folders = model.AllFolders
	}

	result := &Result{
		Run: model.SyncRun{
			ID:        uuid.New().String(),
			Folders:   joinFolders(folders),
			StartedAt: s.now(),
		},
		Restored: make(map[model.Folder][]int64),
	}

	remote, err := s.scanner.Scan(ctx, creds, folders)
	if err != nil {
		return nil, fmt.Errorf("scanning remote index: %w", err)
	}
	result.Run.Pages = remote.PagesScanned
	result.Run.Scanned = remote.Len()

	local, err := s.store.IndexedMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading local index: %w", err)
	}

	plan := Reconcile(remote, local)
	s.log.WithFields(logrus.Fields{
		"scanned":   remote.Len(),
		"new":       len(plan.New),
		"moved":     len(plan.Moved),
		"unchanged": plan.Unchanged,
	}).Info("Compared remote and local index")

	if plan.Empty() {
		s.log.Info("Nothing to do")
		return s.finish(ctx, result)
	}

	for _, entry := range plan.Moved {
		if err := s.store.UpdateFolder(ctx, entry.ID, entry.Folder); err != nil {
			return nil, fmt.Errorf("recording move of message %d: %w", entry.ID, err)
		}
		s.log.WithFields(logrus.Fields{
			"id":     entry.ID,
			"folder": entry.Folder,
		}).Info("Message moved")
		result.Moved = append(result.Moved, entry)
	}

	// Folders in the order their first unread message was fetched.
	var restoreOrder []model.Folder
	for _, entry := range plan.New {
		msg, err := s.source.FetchMessage(ctx, creds, entry)
		if err != nil {
			s.abandon(ctx, creds, restoreOrder, result.Restored)
			return nil, err
		}
		if err := s.store.SaveMessage(ctx, *msg); err != nil {
			s.abandon(ctx, creds, restoreOrder, result.Restored)
			return nil, fmt.Errorf("saving message %d: %w", msg.ID, err)
		}
		result.Fetched = append(result.Fetched, *msg)

		s.log.WithFields(logrus.Fields{
			"id":     msg.ID,
			"folder": msg.Folder,
			"sent":   msg.Sent,
		}).Infof("%s [%s] %s",
			msg.Time(nil).Format("2006-01-02 15:04"), msg.Folder.Title(), msg.SubjectOrDefault())

		if remote.IsUnread(msg.ID) && !msg.Sent {
			if _, seen := result.Restored[msg.Folder]; !seen {
				restoreOrder = append(restoreOrder, msg.Folder)
			}
			result.Restored[msg.Folder] = append(result.Restored[msg.Folder], msg.ID)
		}
	}

	restored, err := s.restoreUnread(ctx, creds, restoreOrder, result.Restored)
	result.Run.RestoredCount = restored
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, result)
}

// restoreUnread marks the given messages unread again, folder by folder,
// and reports how many were marked before any failure.
func (s *Syncer) restoreUnread(
	ctx context.Context,
	creds model.Credentials,
	order []model.Folder,
	restore map[model.Folder][]int64,
) (int, error) {
	count := 0
	for _, folder := range order {
		ids := restore[folder]
		if err := s.source.MarkUnread(ctx, creds, folder, ids); err != nil {
			return count, err
		}
		count += len(ids)
	}
	return count, nil
}

// abandon runs when a sync stops early. Messages already archived were
// marked read by fetching them, so they are put back to unread before the
// error is returned. Failures here are only logged.
func (s *Syncer) abandon(
	ctx context.Context,
	creds model.Credentials,
	order []model.Folder,
	restore map[model.Folder][]int64,
) {
	if len(order) == 0 {
		return
	}
	restored, err := s.restoreUnread(context.WithoutCancel(ctx), creds, order, restore)
	if err != nil {
		s.log.WithError(err).WithField("restored", restored).
			Warn("Could not mark archived messages unread after sync failure")
		return
	}
	s.log.WithField("restored", restored).Info("Marked archived messages unread after sync failure")
}

// finish stamps and records the run summary.
func (s *Syncer) finish(ctx context.Context, result *Result) (*Result, error) {
	result.Run.NewCount = len(result.Fetched)
	result.Run.MovedCount = len(result.Moved)
	result.Run.FinishedAt = s.now()

	if err := s.store.RecordSyncRun(ctx, result.Run); err != nil {
		return nil, fmt.Errorf("recording sync run: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"new":      result.Run.NewCount,
		"moved":    result.Run.MovedCount,
		"restored": result.Run.RestoredCount,
	}).Infof("%d new message%s downloaded", result.Run.NewCount, plural(result.Run.NewCount))

	return result, nil
}

func joinFolders(folders []model.Folder) string {
	names := make([]string, len(folders))
	for i, f := range folders {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
