package furaffinity

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/nhle/fapm/internal/source"
)

// Extracted holds the fields parsed from a message page.
type Extracted struct {
	Subject   *string
	Timestamp int64
	Sender    string
	Receiver  string
	Text      string

	// Username is the logged-in account shown in the page header.
	Username string
}

// dateLayouts are the formats the forum prints message dates in.
var dateLayouts = []string{
	"Jan 2, 2006 03:04 PM",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 03:04PM",
	"Jan 2, 2006 15:04",
	"January 2, 2006 03:04 PM",
	"January 2, 2006 3:04 PM",
	"2 January 2006 15:04",
	"2 Jan 2006 15:04",
	"2 January 2006 03:04 PM",
	"2 Jan 2006 03:04 PM",
}

var ordinalSuffix = regexp.MustCompile(`(\d)(st|nd|rd|th)\b`)

// DateParser turns the forum's human readable dates into epoch seconds.
type DateParser struct {
	// Location is the zone dates are interpreted in. Nil means local time.
	Location *time.Location
}

// Parse converts value to epoch seconds. Known forum layouts are tried
// first; anything else goes through a permissive parser.
func (p DateParser) Parse(value string) (int64, error) {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	v := strings.Join(strings.Fields(value), " ")
	if len(v) > 3 && strings.EqualFold(v[:3], "on ") {
		v = v[3:]
	}
	v = ordinalSuffix.ReplaceAllString(v, "$1")

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t.Unix(), nil
		}
	}

	t, err := dateparse.ParseIn(v, loc)
	if err != nil {
		return 0, fmt.Errorf("parsing date %q: %w", value, err)
	}
	return t.Unix(), nil
}

// Extract parses a message page. The subject is optional; every other
// field is required and its absence yields a *source.ExtractionError.
func Extract(html string, dates DateParser) (*Extracted, error) {
	var out Extracted

	if subject, ok := firstSubmatch(html, fieldPatterns[FieldSubject]); ok {
		if s := strings.TrimSpace(subject); s != "" {
			out.Subject = &s
		}
	}

	var err error
	if out.Sender, err = required(html, FieldSender); err != nil {
		return nil, err
	}
	if out.Receiver, err = required(html, FieldReceiver); err != nil {
		return nil, err
	}

	rawDate, err := required(html, FieldTimestamp)
	if err != nil {
		return nil, err
	}
	if out.Timestamp, err = dates.Parse(rawDate); err != nil {
		return nil, &source.ExtractionError{Field: string(FieldTimestamp)}
	}

	// An empty body is valid, a missing one is not.
	text, ok := firstSubmatch(html, fieldPatterns[FieldText])
	if !ok {
		return nil, &source.ExtractionError{Field: string(FieldText)}
	}
	out.Text = cleanText(text)

	if out.Username, err = required(html, FieldUsername); err != nil {
		return nil, err
	}

	return &out, nil
}

// required returns the trimmed value of field or an ExtractionError.
func required(html string, field Field) (string, error) {
	value, ok := firstSubmatch(html, fieldPatterns[field])
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", &source.ExtractionError{Field: string(field)}
	}
	return value, nil
}

// cleanText strips line breaks from the body markup.
func cleanText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.NewReplacer("\n", "", "\r", "").Replace(text)
	return strings.TrimSpace(text)
}
