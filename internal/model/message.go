package model

import (
	"regexp"
	"strings"
	"time"
)

// Folder identifies the remote partition a message lives in.
type Folder string

const (
	FolderInbox   Folder = "inbox"
	FolderSent    Folder = "sent"
	FolderArchive Folder = "archive"
	FolderTrash   Folder = "trash"

	// legacyFolderOutbox is the old name of FolderSent.
	legacyFolderOutbox = "outbox"
)

// AllFolders lists every folder in scan order.
var AllFolders = []Folder{FolderInbox, FolderSent, FolderArchive, FolderTrash}

// ParseFolder converts user input into a Folder. Matching is
// case-insensitive. The legacy name "outbox" maps to FolderSent and is
// reported through the renamed return value.
func ParseFolder(value string) (folder Folder, renamed bool, err error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == legacyFolderOutbox {
		return FolderSent, true, nil
	}
	for _, f := range AllFolders {
		if string(f) == v {
			return f, false, nil
		}
	}
	return "", false, &ValidationError{Field: "folder", Value: value, Msg: "expected inbox, sent, archive or trash"}
}

// Title returns the folder name as shown to the user.
func (f Folder) Title() string {
	if f == "" {
		return ""
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

// Message is a single archived private message.
type Message struct {
	// ID is assigned by the forum and never reused.
	ID int64 `db:"id" json:"id"`

	// Folder is where the message currently lives on the forum.
	Folder Folder `db:"folder" json:"folder"`

	// Sent is true when the account owner wrote the message. It is fixed
	// when the message is first fetched.
	Sent bool `db:"sent" json:"sent"`

	// Subject is nil when the message has no subject.
	Subject *string `db:"subject" json:"subject,omitempty"`

	// Timestamp is the send time in epoch seconds.
	Timestamp int64 `db:"timestamp" json:"timestamp"`

	Sender   string `db:"sender" json:"sender"`
	Receiver string `db:"receiver" json:"receiver"`

	// Text is the message body markup with line breaks removed.
	Text string `db:"text" json:"text"`

	// FetchedAt is when the message was downloaded into the archive.
	FetchedAt time.Time `db:"fetched_at" json:"fetched_at"`
}

// Contact returns the other party of the conversation.
func (m Message) Contact() string {
	if m.Sent {
		return m.Receiver
	}
	return m.Sender
}

// Time returns the send time in the given location.
func (m Message) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(m.Timestamp, 0).In(loc)
}

// SubjectOrDefault returns the subject, or "no subject" when absent.
func (m Message) SubjectOrDefault() string {
	if m.Subject == nil || *m.Subject == "" {
		return "no subject"
	}
	return *m.Subject
}

// DisplaySubject returns the subject with any leading "RE:" prefixes
// removed unless keepRe is set.
func (m Message) DisplaySubject(keepRe bool) string {
	subject := m.SubjectOrDefault()
	if keepRe {
		return subject
	}
	for len(subject) >= 3 && strings.EqualFold(subject[:3], "re:") {
		subject = strings.TrimLeft(subject[3:], " \t")
	}
	if subject == "" {
		return "no subject"
	}
	return subject
}

var (
	quoteStartPattern = regexp.MustCompile(`(?i)\[QUOTE\]`)
	quoteEndPattern   = regexp.MustCompile(`(?i)\[/QUOTE\]`)
)

// smilie maps a forum smilie tag to its BBCode text and emoji entity.
type smilie struct {
	tag, bbcode, emoji string
}

var smilies = []smilie{
	{`<i class="smilie tongue"></i>`, ":-p", "&#128539;"},
	{`<i class="smilie cool"></i>`, ":cool:", "&#128526;"},
	{`<i class="smilie wink"></i>`, ";-)", "&#128521;"},
	{`<i class="smilie oooh"></i>`, ":-o", "&#128558;"},
	{`<i class="smilie smile"></i>`, ":-)", "&#128578;"},
	{`<i class="smilie evil"></i>`, ":evil:", "&#128520;"},
	{`<i class="smilie huh"></i>`, ":huh:", "&#128533;"},
	{`<i class="smilie whatever"></i>`, ":whatever:", "&#128535;"},
	{`<i class="smilie angel"></i>`, ":angel:", "&#128519;"},
	{`<i class="smilie badhairday"></i>`, ":badhair:", "&#128534;"},
	{`<i class="smilie lmao"></i>`, ":lmao:", "&#128518;"},
	{`<i class="smilie cd"></i>`, ":cd:", "&#128191;"},
	{`<i class="smilie crying"></i>`, ":cry:", "&#128549;"},
	{`<i class="smilie dunno"></i>`, ":idunno:", "&#128528;"},
	{`<i class="smilie embarrassed"></i>`, ":embarrassed:", "&#128522;"},
	{`<i class="smilie gift"></i>`, ":gift:", "&#127873;"},
	{`<i class="smilie coffee"></i>`, ":coffee:", "&#127866;&#65039;"},
	{`<i class="smilie love"></i>`, ":love:", "&#10084;&#65039;"},
	{`<i class="smilie nerd"></i>`, ":isanerd:", "&#129299;"},
	{`<i class="smilie note"></i>`, ":note:", "&#127925;"},
	{`<i class="smilie derp"></i>`, ":derp:", "&#129396;"},
	{`<i class="smilie sarcastic"></i>`, ":sarcastic:", "&#129320;"},
	{`<i class="smilie serious"></i>`, ":serious:", "&#128528;"},
	{`<i class="smilie sad"></i>`, ":-(", "&#128577;"},
	{`<i class="smilie sleepy"></i>`, ":sleepy:", "&#128564;"},
	{`<i class="smilie teeth"></i>`, ":teeth:", "&#128544;"},
	{`<i class="smilie veryhappy"></i>`, ":veryhappy:", "&#128515;"},
	{`<i class="smilie yelling"></i>`, ":yelling:", "&#129324;"},
	{`<i class="smilie zipped"></i>`, ":zipped:", "&#129296;"},
}

// FormattedText returns the body with BBCode quotes turned into spans
// and smilie tags replaced by emoji entities, or by their BBCode text
// when emojis is false.
func (m Message) FormattedText(emojis bool) string {
	// The forum's own BBCode parser leaves nested quotes untouched.
	text := quoteStartPattern.ReplaceAllLiteralString(m.Text, `<span class="bbcode bbcode_quote">`)
	text = quoteEndPattern.ReplaceAllLiteralString(text, "</span>")

	for _, s := range smilies {
		replacement := s.emoji
		if !emojis {
			replacement = s.bbcode
		}
		text = strings.ReplaceAll(text, s.tag, replacement)
	}
	return text
}
