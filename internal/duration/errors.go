package duration

import (
	"errors"
	"fmt"
)

var (
	ErrEmpty       = errors.New("empty duration")
	ErrSyntax      = errors.New("malformed duration")
	ErrUnknownUnit = errors.New("unknown unit")
	ErrOverflow    = errors.New("duration out of range")
)

// ParseError reports a duration string that could not be converted.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid duration %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
