// Package export writes the message archive in formats other mail tools
// can read.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/fapm/internal/model"
)

// DefaultDomain is used to build pseudo mail addresses for usernames.
const DefaultDomain = "furaffinity.net"

// Options control the exported message content.
type Options struct {
	// Domain is appended to usernames to form addresses.
	Domain string

	// Emojis replaces smilie tags with emoji entities instead of BBCode.
	Emojis bool

	// KeepRe leaves "RE:" prefixes in subjects.
	KeepRe bool
}

// Mbox writes messages to w as an mbox file, one HTML mail per message.
// It returns the number of messages written.
func Mbox(w io.Writer, messages []model.Message, opts Options) (int, error) {
	if opts.Domain == "" {
		opts.Domain = DefaultDomain
	}

	mw := mbox.NewWriter(w)
	for i, m := range messages {
		from := address(m.Sender, opts.Domain)
		mboxFrom := from.Address
		msgWriter, err := mw.CreateMessage(mboxFrom, m.Time(time.UTC))
		if err != nil {
			return i, fmt.Errorf("creating mbox entry for message %d: %w", m.ID, err)
		}
		if err := writeMail(msgWriter, m, opts); err != nil {
			return i, fmt.Errorf("writing message %d: %w", m.ID, err)
		}
	}
	if err := mw.Close(); err != nil {
		return len(messages), fmt.Errorf("closing mbox: %w", err)
	}
	return len(messages), nil
}

func writeMail(w io.Writer, m model.Message, opts Options) error {
	var h mail.Header
	h.SetDate(m.Time(time.UTC))
	h.SetAddressList("From", []*mail.Address{address(m.Sender, opts.Domain)})
	h.SetAddressList("To", []*mail.Address{address(m.Receiver, opts.Domain)})
	h.SetSubject(m.DisplaySubject(opts.KeepRe))
	h.SetMessageID(fmt.Sprintf("%d@%s", m.ID, opts.Domain))
	h.Set("X-Fapm-Folder", string(m.Folder))
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})

	body, err := mail.CreateSingleInlineWriter(w, h)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(body, m.FormattedText(opts.Emojis)); err != nil {
		body.Close()
		return err
	}
	return body.Close()
}

func address(username, domain string) *mail.Address {
	local := strings.ToLower(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, username))
	return &mail.Address{Name: username, Address: local + "@" + domain}
}
