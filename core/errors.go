// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Recoverable conditions reported by a Renderer, and the host quit request.
var (
	ErrOutOfDate             = errors.New("swapchain is out of date")
	ErrUnsupportedDimensions = errors.New("swapchain dimensions are not supported by the surface")
	ErrQuitRequested         = errors.New("quit requested by the host")
)

// FatalError ends the frame loop. There is no recovery from it,
// the process is expected to report it and exit.
type FatalError struct {
	Stage string
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error in %s: %s", e.Stage, e.Err.Error())
}

// Cause returns the underlying error
func (e *FatalError) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error
func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err, or anything it wraps, is a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

func fatal(stage string, err error) error {
	return &FatalError{Stage: stage, Err: err}
}
