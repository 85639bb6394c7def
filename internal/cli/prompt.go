package cli

import (
	"errors"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user for input.
type Prompter interface {
	// Select returns the index of the chosen item.
	Select(label string, items []string, cursor int) (int, error)
	Input(label, def string, validate func(string) error) (string, error)
	Secret(label string) (string, error)
}

// TerminalPrompter prompts on the controlling terminal.
type TerminalPrompter struct{}

func (TerminalPrompter) Select(label string, items []string, cursor int) (int, error) {
	p := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: cursor,
		Size:      10,
	}
	i, _, err := p.Run()
	return i, mapPromptErr(err)
}

func (TerminalPrompter) Input(label, def string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
	}
	if validate != nil {
		p.Validate = promptui.ValidateFunc(validate)
	}
	s, err := p.Run()
	return s, mapPromptErr(err)
}

func (TerminalPrompter) Secret(label string) (string, error) {
	p := promptui.Prompt{Label: label, Mask: '*'}
	s, err := p.Run()
	return s, mapPromptErr(err)
}

func mapPromptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrAborted
	}
	return err
}
