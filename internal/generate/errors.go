package generate

import "fmt"

// GenerationError reports a failure while rendering or writing artifacts.
type GenerationError struct {
	Path string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s: %v", e.Path, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
