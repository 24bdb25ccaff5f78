package generate

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrOutOfDate is returned by Check when the destination differs from what
// the pipeline would write.
var ErrOutOfDate = errors.New("generated bridge is out of date")

// TypeError reports an annotation or parameter shape the mapper cannot
// translate.
type TypeError struct {
	Operation  string
	Annotation string
	Reason     string
}

func (e *TypeError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("unsupported annotation %q: %s", e.Annotation, e.Reason)
	}
	return fmt.Sprintf("operation %s: unsupported annotation %q: %s", e.Operation, e.Annotation, e.Reason)
}

// ValueError reports a default value that is not a supported literal.
type ValueError struct {
	Operation  string
	Parameter  string
	Expression string
	Kind       string
}

func (e *ValueError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("unsupported default %q (%s)", e.Expression, e.Kind)
	}
	return fmt.Sprintf("operation %s: parameter %s: unsupported default %q (%s)",
		e.Operation, e.Parameter, e.Expression, e.Kind)
}

// PathError reports a source or destination path that fails pre-flight.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}
