package resolve

import (
	"fmt"

	"github.com/indaco/devflake/internal/detect"
)

// ConflictError reports two requirements of equal precedence that no single
// version can satisfy.
type ConflictError struct {
	Language string
	First    detect.Signal
	Second   detect.Signal
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting %s requirements: %s from %s vs %s from %s",
		e.Language,
		e.First.Requirement, e.First.Source,
		e.Second.Requirement, e.Second.Source)
}
