package dashboard

import (
	"errors"
	"fmt"
)

// errUnexpectedData guards the type assertions on fetch results; it
// only fires if a provider returns the wrong model type.
var errUnexpectedData = errors.New("unexpected data type in fetch result")

// LoadError reports that an aggregation pass produced no usable data:
// every configured country failed to load. Partial failures do not
// raise it; affected countries carry their own error instead.
type LoadError struct {
	Year string
	Errs []error
}

func (e *LoadError) Error() string {
	if e.Year != "" {
		return fmt.Sprintf("dashboard load failed for %s: %v", e.Year, errors.Join(e.Errs...))
	}
	return fmt.Sprintf("dashboard load failed: %v", errors.Join(e.Errs...))
}

func (e *LoadError) Unwrap() []error { return e.Errs }
