package detect

import (
	"errors"
	"fmt"
)

// errNoParseableRequirement is returned when a constraint list contains
// nothing usable.
var errNoParseableRequirement = errors.New("no parseable requirement")

// errInvalidJSON is returned for lockfiles that are not well-formed JSON.
var errInvalidJSON = errors.New("invalid JSON")

// ParseError reports a marker file whose content could not be interpreted.
// It is a warning, not a failure: the file contributes no signals and
// detection continues.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
