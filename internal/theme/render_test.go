package theme

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/fapm/internal/model"
)

func TestPlainText(t *testing.T) {
	got := PlainText(`Hello there,<br />      line two &amp; more<br/>bye`)
	assert.Equal(t, "Hello there,\nline two & more\nbye", got)
}

func TestPlainTextQuote(t *testing.T) {
	got := PlainText(`before <span class="bbcode bbcode_quote">how much?</span> after`)
	assert.Contains(t, got, "before")
	assert.Contains(t, got, "how much?")
	assert.Contains(t, got, "after")
	assert.NotContains(t, got, "<span")
	assert.Less(t, strings.Index(got, "before"), strings.Index(got, "how much?"))
	assert.Less(t, strings.Index(got, "how much?"), strings.Index(got, "after"))
}

func TestPlainTextEmojiEntity(t *testing.T) {
	assert.Equal(t, "hi \U0001F642", PlainText("hi &#128578;"))
}

func TestPlainTextLink(t *testing.T) {
	got := PlainText(`See <a href="https://www.furaffinity.net/view/123/" class="auto_link">my new piece</a>!<br/>Thanks a lot<br /><br />bye`)
	assert.Contains(t, got, "my new piece")
	assert.Contains(t, got, "https://www.furaffinity.net/view/123/")
	assert.Contains(t, got, "\nThanks a lot\n")
	assert.True(t, strings.HasSuffix(got, "bye"))
	assert.NotContains(t, got, "<a")
	assert.NotContains(t, got, "\r")
}

func TestPlainTextQuotedLink(t *testing.T) {
	got := PlainText(`<span class="bbcode bbcode_quote">look at <a href="https://example.com/a?b=1&amp;c=2">this</a></span>sure`)
	assert.Contains(t, got, "this")
	assert.Contains(t, got, "https://example.com/a?b=1&c=2")
	assert.True(t, strings.HasSuffix(got, "sure"))
}

func TestConversation(t *testing.T) {
	subject := "RE: Commission"
	messages := []model.Message{
		{ID: 1, Folder: model.FolderInbox, Subject: &subject, Timestamp: 1641395640,
			Sender: "Alice", Receiver: "me", Text: `hi <i class="smilie smile"></i>`},
		{ID: 2, Folder: model.FolderSent, Sent: true, Timestamp: 1641399240,
			Sender: "me", Receiver: "Alice", Text: "hello"},
	}

	out := Conversation("Alice", messages, ConversationOptions{Location: time.UTC})
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "2 messages")
	assert.Contains(t, out, "2022-01-05 15:14")
	assert.Contains(t, out, "Commission")
	assert.NotContains(t, out, "RE: Commission")
	assert.Contains(t, out, "no subject")
	assert.Contains(t, out, "hi :-)")
	assert.Contains(t, out, "hello")

	kept := Conversation("Alice", messages[:1], ConversationOptions{KeepRe: true, Emojis: true, Location: time.UTC})
	assert.Contains(t, kept, "RE: Commission")
	assert.Contains(t, kept, "1 message\n")
	assert.Contains(t, kept, "\U0001F642")
}
