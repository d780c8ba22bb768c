package theme

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/k3a/html2text"

	"github.com/nhle/fapm/internal/model"
)

var (
	lineBreakPattern = regexp.MustCompile(`(?i)<br\s*/?>`)
	quoteOpenPattern = regexp.MustCompile(`<span class="bbcode bbcode_quote">`)
)

const quoteClose = "</span>"

// ConversationOptions control how message bodies and subjects are shown.
type ConversationOptions struct {
	Emojis   bool
	KeepRe   bool
	Location *time.Location
}

// PlainText turns stored message markup into terminal text. Quoted
// passages are styled with QuoteStyle and links keep their target URL.
func PlainText(markup string) string {
	markup = lineBreakPattern.ReplaceAllString(markup, "<br>")

	var b strings.Builder
	for {
		loc := quoteOpenPattern.FindStringIndex(markup)
		if loc == nil {
			break
		}
		end := strings.Index(markup[loc[1]:], quoteClose)
		if end < 0 {
			break
		}
		b.WriteString(toText(markup[:loc[0]]))
		quoted := strings.TrimSpace(toText(markup[loc[1] : loc[1]+end]))
		b.WriteString("\n" + QuoteStyle.Render(quoted) + "\n")
		markup = markup[loc[1]+end+len(quoteClose):]
	}
	b.WriteString(toText(markup))

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

func toText(markup string) string {
	return html2text.HTML2TextWithOptions(markup,
		html2text.WithUnixLineBreaks(),
		html2text.WithLinksInnerText())
}

// Conversation renders every message exchanged with contact, oldest
// first.
func Conversation(contact string, messages []model.Message, opts ConversationOptions) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(contact))
	b.WriteString("\n")
	b.WriteString(DimmedStyle.Render(fmt.Sprintf("%d message%s", len(messages), plural(len(messages)))))
	b.WriteString("\n\n")

	for _, m := range messages {
		header := fmt.Sprintf("%s %s %s",
			AuthorStyle(m.Sent).Render(m.Sender),
			FolderLabelStyle(m.Folder).Render(m.Folder.Title()),
			DimmedStyle.Render(m.Time(opts.Location).Format("2006-01-02 15:04")),
		)
		body := SubjectStyle.Render(m.DisplaySubject(opts.KeepRe)) + "\n\n" +
			PlainText(m.FormattedText(opts.Emojis))

		b.WriteString(header)
		b.WriteString("\n")
		b.WriteString(MessageStyle(m.Sent).Render(body))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
