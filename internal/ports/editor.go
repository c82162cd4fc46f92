package ports

import "context"

// Editor hands a buffer to the user and returns what they saved.
type Editor interface {
	Edit(ctx context.Context, name string, text string) (string, error)
}

type Prompter interface {
	Confirm(prompt string) bool
}
