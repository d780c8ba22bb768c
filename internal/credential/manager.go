package credential

import (
	"fmt"
	"io"

	"github.com/nhle/fapm/internal/model"
)

// AboutCookies explains where the session tokens come from. It is
// printed once before the first prompt.
const AboutCookies = `In Firefox, sign into your FurAffinity account, then press SHIFT F9 to open the
Storage Inspector window. The cookies named A and B have values that might look
similar to this:

  abcdef01-2345-6789-abcd-ef0123456789

Double-click on a value to highlight it, then press CTRL C to copy it. Paste
each of the values into the prompt below.

WARNING: By entering your session data, you are giving this program complete
control over your FurAffinity account. Only you can decide whether or not you
trust this software and wish to continue using it.
`

// AboutLogout reminds the user to invalidate the tokens they supplied.
const AboutLogout = `For your security, you should log out of your FurAffinity account. This will
invalidate the session cookies you provided to this program.`

// Provider asks the user for a session token.
type Provider interface {
	PromptTokenA() (string, error)
	PromptTokenB() (string, error)
}

// Manager turns optional command-line tokens into Credentials,
// prompting for whatever is missing or malformed.
type Manager struct {
	provider Provider
	out      io.Writer
}

// NewManager creates a Manager that prompts through provider and prints
// the cookie notice to out.
func NewManager(provider Provider, out io.Writer) *Manager {
	if out == nil {
		out = io.Discard
	}
	return &Manager{provider: provider, out: out}
}

// Obtain returns Credentials built from a and b. A token that is empty or
// malformed is requested from the provider until a valid one is given.
// The notice is printed once, and only when a prompt is needed.
func (m *Manager) Obtain(a, b string) (model.Credentials, error) {
	tokenA, errA := NormalizeToken("A", a)
	tokenB, errB := NormalizeToken("B", b)

	needPrompt := errA != nil || errB != nil
	if needPrompt {
		fmt.Fprint(m.out, AboutCookies)
	}

	var err error
	for errA != nil {
		if tokenA, errA, err = m.prompt("A", m.provider.PromptTokenA); err != nil {
			return model.Credentials{}, err
		}
	}
	for errB != nil {
		if tokenB, errB, err = m.prompt("B", m.provider.PromptTokenB); err != nil {
			return model.Credentials{}, err
		}
	}

	if needPrompt {
		fmt.Fprintln(m.out)
	}
	return model.NewCredentials(tokenA, tokenB), nil
}

// prompt asks once. A provider failure is returned as err; a malformed
// answer is returned as invalid so the caller asks again.
func (m *Manager) prompt(name string, ask func() (string, error)) (token string, invalid, err error) {
	raw, err := ask()
	if err != nil {
		return "", nil, fmt.Errorf("reading session token %s: %w", name, err)
	}
	token, invalid = NormalizeToken(name, raw)
	if invalid != nil {
		fmt.Fprintln(m.out, invalid)
	}
	return token, invalid, nil
}
