package picker

import "errors"

var (
	// ErrAborted signals the user aborted the prompt (e.g., Ctrl+C).
	ErrAborted = errors.New("picker: aborted")
	// ErrNoChoices is returned when there is nothing to pick from.
	ErrNoChoices = errors.New("picker: nothing to choose from")
)
