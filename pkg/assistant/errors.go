package assistant

import (
	"errors"
	"fmt"
)

var (
	ErrInit       = errors.New("assistant initialization failed")
	ErrGeneration = errors.New("generation failed")
)

// InitError means the model could not be loaded. It is permanent for the
// lifetime of the Assistant that produced it.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInit, e.Err)
}

func (e *InitError) Unwrap() []error {
	return []error{ErrInit, e.Err}
}

// GenerationError is a failed summarize or answer call.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrGeneration, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrGeneration, e.Err}
}
