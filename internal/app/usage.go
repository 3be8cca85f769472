package app

import (
	"fmt"
	"strconv"
)

// DefaultIterations is used when no iteration count is given.
const DefaultIterations = 64

// Usage is the one-line synopsis printed with usage errors.
const Usage = "usage: bandlife [flags] [iterations]"

// UsageError reports malformed command-line input. It is detected before any
// worker starts.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// ParseIterations reads the optional positional iteration count.
func ParseIterations(args []string) (int, error) {
	switch len(args) {
	case 0:
		return DefaultIterations, nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return 0, &UsageError{Msg: fmt.Sprintf("invalid iteration count %q", args[0])}
		}
		return n, nil
	}
	return 0, &UsageError{Msg: fmt.Sprintf("expected at most one argument, got %d", len(args))}
}
