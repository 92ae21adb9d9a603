package dataset

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for options rejected before any I/O.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrIO matches every *IOError via errors.Is.
var ErrIO = errors.New("io failure")

// IOError reports a failed operation on a data file.
type IOError struct {
	Op   string // open, stat, read, write, flush, close
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
