package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyPrompt is returned when neither the command line nor stdin supplied
// any prompt text.
var ErrEmptyPrompt = errors.New("no prompt provided")

// Resolve returns the prompt from the positional arguments, or from r when
// useStdin is set. Stdin takes precedence over arguments so that piped input
// wins even when both are present. Whitespace-only input counts as empty.
func Resolve(args []string, useStdin bool, r io.Reader) (string, error) {
	if useStdin {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		s := strings.TrimSpace(string(b))
		if s == "" {
			return "", fmt.Errorf("%w: stdin was empty", ErrEmptyPrompt)
		}
		return s, nil
	}

	s := strings.TrimSpace(strings.Join(args, " "))
	if s == "" {
		return "", fmt.Errorf("%w: pass a prompt argument or use -stdin", ErrEmptyPrompt)
	}
	return s, nil
}
