package roast

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for a handle that is empty after trimming.
var ErrInvalidInput = errors.New("please enter a valid GitHub username")

// GenerationError reports a failed or empty model response.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("roast generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
