package credential

import (
	"github.com/charmbracelet/huh"
)

// TerminalProvider prompts for tokens on the terminal without echoing them.
type TerminalProvider struct{}

// PromptTokenA asks for the "a" cookie.
func (TerminalProvider) PromptTokenA() (string, error) {
	return promptToken("A")
}

// PromptTokenB asks for the "b" cookie.
func (TerminalProvider) PromptTokenB() (string, error) {
	return promptToken("B")
}

func promptToken(name string) (string, error) {
	var value string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Session token " + name).
				Description("Value of the " + name + " cookie").
				Placeholder("abcdef01-2345-6789-abcd-ef0123456789").
				EchoMode(huh.EchoModePassword).
				Value(&value).
				Validate(validate(name)),
		),
	).Run()
	if err != nil {
		return "", err
	}
	return value, nil
}
