package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field path, e.g. "modes.normal.k_base"
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// WithPrefix returns a copy of the error whose key is nested under prefix.
func (e *ValidationError) WithPrefix(prefix string) *ValidationError {
	if prefix == "" {
		return e
	}
	out := *e
	out.Key = prefix + "." + e.Key
	return &out
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is (or wraps) an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// Prefix nests every ValidationError of an AggregateError under prefix.
// Other errors are returned unchanged.
func Prefix(prefix string, err error) error {
	var aggr *AggregateError
	if !errors.As(err, &aggr) {
		return err
	}
	out := &AggregateError{Errors: make([]error, 0, len(aggr.Errors))}
	for _, e := range aggr.Errors {
		var ve *ValidationError
		if errors.As(e, &ve) {
			out.Errors = append(out.Errors, ve.WithPrefix(prefix))
			continue
		}
		out.Errors = append(out.Errors, e)
	}
	return out
}
