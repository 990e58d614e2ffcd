package docview

import (
	"errors"
	"fmt"
)

// Sentinel errors for the docview module.
var (
	// ErrInvalidArgument is returned when a caller violates an API
	// contract.
	ErrInvalidArgument = errors.New("docview: invalid argument")

	// ErrIO is returned when loading a document fails.
	ErrIO = errors.New("docview: i/o error")

	// ErrRender is returned when the rasterizer rejects a render request.
	ErrRender = errors.New("docview: render error")

	// ErrCanceled is returned when a render task was canceled before it
	// ran.
	ErrCanceled = errors.New("docview: canceled")
)

// RenderError wraps a rasterizer failure for a specific page. It matches
// ErrRender via errors.Is.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("docview: rendering page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches ErrRender.
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}
