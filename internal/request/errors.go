package request

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound signals an operation targeting an id the store does not hold.
var ErrNotFound = errors.New("request: not found")

// Validation messages match the API contract; keep them caller-facing.
const (
	msgBorrowerName  = "Borrower name must be between 2 and 100 characters"
	msgLoanAmount    = "Loan amount must be between $1 and $10,000,000"
	msgInvalidStatus = "Invalid status value"
)

// ValidationError reports one or more invalid fields. Fields maps field name
// to the messages describing why the value was rejected.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "request: validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	return "request: validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// InvalidStatusError builds the validation error for a status value outside
// the known set, attributed to the given field.
func InvalidStatusError(field string) *ValidationError {
	verr := &ValidationError{}
	verr.add(field, msgInvalidStatus)
	return verr
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
