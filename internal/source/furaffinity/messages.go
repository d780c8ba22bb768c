package furaffinity

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/fapm/internal/model"
)

// FetchMessage downloads a message page and turns it into a Message.
// Viewing the page marks the message read on the forum.
func (c *Client) FetchMessage(
	ctx context.Context,
	creds model.Credentials,
	entry model.IndexEntry,
) (*model.Message, error) {
	body, err := c.Do(ctx, creds, Request{
		Path:   fmt.Sprintf("/viewmessage/%d/", entry.ID),
		Folder: entry.Folder,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching message %d: %w", entry.ID, err)
	}

	fields, err := Extract(string(body), c.dates)
	if err != nil {
		return nil, fmt.Errorf("parsing message %d: %w", entry.ID, err)
	}

	return &model.Message{
		ID:        entry.ID,
		Folder:    entry.Folder,
		Sent:      fields.Sender == fields.Username,
		Subject:   fields.Subject,
		Timestamp: fields.Timestamp,
		Sender:    fields.Sender,
		Receiver:  fields.Receiver,
		Text:      fields.Text,
		FetchedAt: time.Now(),
	}, nil
}

// MarkUnread flags ids as unread again. It is a no-op for an empty list.
func (c *Client) MarkUnread(
	ctx context.Context,
	creds model.Credentials,
	folder model.Folder,
	ids []int64,
) error {
	if len(ids) == 0 {
		return nil
	}

	form := url.Values{}
	form.Set("manage_notes", "1")
	form.Set("move_to", "unread")
	for _, id := range ids {
		form.Add("items[]", strconv.FormatInt(id, 10))
	}

	c.log.WithFields(logrus.Fields{
		"folder": folder,
		"count":  len(ids),
	}).Info("Marking messages unread")

	if _, err := c.Do(ctx, creds, Request{
		Path:   "/msg/pms/",
		Folder: folder,
		Form:   form,
	}); err != nil {
		return fmt.Errorf("marking %d messages unread in %s: %w", len(ids), folder, err)
	}
	return nil
}
