package opt

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks caller errors: malformed routes, negative limits or
// unsupported algorithm identifiers. It is never retryable.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// UnsupportedAlgorithm returns an ErrInvalidArgument naming the identifier.
func UnsupportedAlgorithm(name string) error {
	return invalidf("unsupported algorithm %q", name)
}
