package prompt

import "errors"

var (
	// ErrNonInteractive is returned when prompting in non-interactive mode.
	ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

	// ErrAborted is returned when the user cancels a prompt.
	ErrAborted = errors.New("prompt aborted")
)

// Prompter defines the interface for interactive user prompts.
type Prompter interface {
	// Select presents options and returns the selected value.
	Select(title string, options []Option) (string, error)

	// Input prompts for text input. validate may be nil.
	Input(title string, defaultValue string, validate func(string) error) (string, error)

	// Confirm prompts for yes/no.
	Confirm(title string, defaultValue bool) (bool, error)
}

// Option is a selectable entry with a display label distinct from its value.
type Option struct {
	Label string
	Value string
}

// NoopPrompter returns errors for all prompts (non-interactive mode).
type NoopPrompter struct{}

func (p *NoopPrompter) Select(title string, options []Option) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Input(title string, defaultValue string, validate func(string) error) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	return false, ErrNonInteractive
}
