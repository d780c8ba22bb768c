package credential

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/fapm/internal/model"
)

var tokenPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-([0-9a-f]{4}-){3}[0-9a-f]{12}$`)

// ValidToken reports whether s has the shape of a session token: a
// hyphenated hexadecimal UUID in either letter case.
func ValidToken(s string) bool {
	return tokenPattern.MatchString(strings.TrimSpace(s))
}

// NormalizeToken validates s and returns its lowercase canonical form.
func NormalizeToken(name, s string) (string, error) {
	s = strings.TrimSpace(s)
	if !ValidToken(s) {
		return "", &model.ValidationError{
			Field: "session token " + name,
			Value: s,
			Msg:   "expected a value like abcdef01-2345-6789-abcd-ef0123456789",
		}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", &model.ValidationError{Field: "session token " + name, Value: s, Msg: err.Error()}
	}
	return id.String(), nil
}

// validate adapts NormalizeToken to a prompt validation callback.
func validate(name string) func(string) error {
	return func(s string) error {
		_, err := NormalizeToken(name, s)
		return err
	}
}
