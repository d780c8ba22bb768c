package furaffinity

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nhle/fapm/internal/model"
)

// Scanner walks the paginated folder listings to build the remote index.
type Scanner struct {
	client   *Client
	maxPages int
}

// NewScanner returns a Scanner issuing requests through client. A
// positive maxPages caps the pages read per folder.
func NewScanner(client *Client, maxPages int) *Scanner {
	if maxPages < 0 {
		maxPages = 0
	}
	return &Scanner{client: client, maxPages: maxPages}
}

// ParseListing returns the message ids on a listing page and the subset
// flagged unread, both in page order.
func ParseListing(html string) (ids, unread []int64) {
	return allIDs(html, idPatterns), allIDs(html, unreadPatterns)
}

// Scan reads every page of each folder until an empty page is reached.
func (s *Scanner) Scan(
	ctx context.Context,
	creds model.Credentials,
	folders []model.Folder,
) (*model.RemoteIndex, error) {
	if len(folders) == 0 {
		folders = model.AllFolders
	}

	index := model.NewRemoteIndex()
	for _, folder := range folders {
		if err := s.scanFolder(ctx, creds, folder, index); err != nil {
			return nil, err
		}
	}
	return index, nil
}

// scanFolder adds the ids of one folder to index.
func (s *Scanner) scanFolder(
	ctx context.Context,
	creds model.Credentials,
	folder model.Folder,
	index *model.RemoteIndex,
) error {
	for page := 1; s.maxPages == 0 || page <= s.maxPages; page++ {
		s.client.log.WithFields(logrus.Fields{
			"folder": folder,
			"page":   page,
		}).Infof("Scanning messages in %s, page %d", folder.Title(), page)

		body, err := s.client.Do(ctx, creds, Request{
			Path:   fmt.Sprintf("/msg/pms/%d/", page),
			Folder: folder,
		})
		if err != nil {
			return fmt.Errorf("scanning %s page %d: %w", folder, page, err)
		}
		index.PagesScanned++

		ids, unread := ParseListing(string(body))
		if len(ids) == 0 {
			return nil
		}

		for _, id := range ids {
			index.Add(id, folder)
		}
		for _, id := range unread {
			index.MarkUnread(id, folder)
		}
	}
	return nil
}
