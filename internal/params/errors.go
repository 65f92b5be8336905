package params

import "fmt"

// UnsupportedWidthError reports a state width outside the partial-round table.
type UnsupportedWidthError struct {
	Width int
	Min   int
	Max   int
}

func (e *UnsupportedWidthError) Error() string {
	return fmt.Sprintf("poseidon254: unsupported state width %d for %d inputs (supported widths %d..%d)",
		e.Width, e.Width-1, e.Min, e.Max)
}

// ConfigurationError reports parameters whose shape does not match the state
// width. It always indicates a parameter derivation bug or a corrupt table,
// never bad user input.
type ConfigurationError struct {
	Width  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("poseidon254: invalid parameters for width %d: %s", e.Width, e.Reason)
}

func configErrorf(width int, format string, args ...any) error {
	return &ConfigurationError{Width: width, Reason: fmt.Sprintf(format, args...)}
}
