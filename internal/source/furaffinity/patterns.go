package furaffinity

import (
	"regexp"
	"strconv"
)

// Field names a value extracted from a message page.
type Field string

const (
	FieldSubject   Field = "subject"
	FieldTimestamp Field = "timestamp"
	FieldSender    Field = "sender"
	FieldReceiver  Field = "receiver"
	FieldText      Field = "text"
	FieldUsername  Field = "username"
)

// The forum serves two page layouts. Each field lists the modern
// pattern first and the classic one second; the first match wins.
var fieldPatterns = map[Field][]*regexp.Regexp{
	FieldSubject: {
		regexp.MustCompile(`(?s)<div class="section-header">.*?<h2>(.*?)</h2>`),
		regexp.MustCompile(`(?s)<a href="/msg/compose/">.*?<b>(.*?)</b>`),
	},
	FieldTimestamp: {
		regexp.MustCompile(`(?s)<div class="section-header">.*?<strong>.+?<span.*?>(.+?)</span>`),
		regexp.MustCompile(`(?s)<a href="/msg/compose/">.*? class="popup_date">(.+?)</span>`),
	},
	FieldSender: {
		regexp.MustCompile(`(?s)<div class="section-header">.*?<strong>(.+?)</strong>`),
		regexp.MustCompile(`(?s)<a href="/msg/compose/">.*?<a .*?<a .*?>(.+?)</a>`),
	},
	FieldReceiver: {
		regexp.MustCompile(`(?s)<div class="section-header">.*?<strong>.+?<strong>(.+?)</strong>`),
		regexp.MustCompile(`(?s)<a href="/msg/compose/">.*?<a .*?<a .*?<a .*?>(.+?)</a>`),
	},
	FieldText: {
		regexp.MustCompile(`(?s)<div class="user-submitted-links">(.*?)</div>`),
		regexp.MustCompile(`(?s)<a href="/msg/compose/">.*? class="popup_date">.*?<br/><br/>(.+?)</td>`),
	},
	FieldUsername: {
		regexp.MustCompile(`(?s)<img class="loggedin_user_avatar .*?<a .*?>(.*?)</a>`),
		regexp.MustCompile(`(?s)<a id="my-username".*?~(.*?)</a>`),
	},
}

// Listing page patterns.
var (
	idPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/msg/pms/\d+/(\d+)/#message`),
		regexp.MustCompile(`href="/viewmessage/(\d+)/"`),
	}

	unreadPatterns = []*regexp.Regexp{
		regexp.MustCompile(`<a class="[^"]*?note-unread[^"]*?" href="/msg/pms/\d+/(\d+)/#message`),
		regexp.MustCompile(`<a class="[^"]*?note-unread[^"]*?" href="/viewmessage/(\d+)/"`),
		regexp.MustCompile(`<input [^>]*? value="(\d+)" />\s*<img class="unread`),
	}
)

// firstSubmatch returns the first capture group of the first pattern
// that matches html.
func firstSubmatch(html string, patterns []*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(html); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// allIDs returns every id captured by the first pattern with any match,
// deduplicated and in page order.
func allIDs(html string, patterns []*regexp.Regexp) []int64 {
	for _, re := range patterns {
		matches := re.FindAllStringSubmatch(html, -1)
		if len(matches) == 0 {
			continue
		}

		seen := make(map[int64]bool, len(matches))
		ids := make([]int64, 0, len(matches))
		for _, m := range matches {
			id, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil || id <= 0 || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		return ids
	}
	return nil
}
