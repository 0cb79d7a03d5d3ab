package ir

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyPath    = errors.New("empty path")
	ErrNotContainer = errors.New("not a container")
	ErrInvalidKey   = errors.New("invalid key")
	ErrNotJSON      = errors.New("no JSON representation")
)

// PathError reports the path at which a path operation failed.
type PathError struct {
	Path Path
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
