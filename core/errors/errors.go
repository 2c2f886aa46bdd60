// Package errors provides the error taxonomy shared by the ProofWeave core.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a named resource (writer, oracle kind) does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates malformed data or a failed validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an input unit of unrecognized shape
	ErrUnsupported = errors.New("unsupported")
	// ErrOracle indicates the checking oracle rejected the source
	ErrOracle = errors.New("oracle failure")
	// ErrPrecondition indicates a violated programmer-facing precondition
	ErrPrecondition = errors.New("precondition violated")
)

// NotFoundError represents a lookup of an unknown named resource
type NotFoundError struct {
	Resource string // Type of resource (e.g., "writer", "oracle")
	ID       string // Name that was looked up
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents a configuration or argument validation error
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "rename")
	Path      string // File path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// InputShapeError reports an input unit whose format is not recognized.
// It is raised before any oracle call.
type InputShapeError struct {
	Path   string // Offending input unit
	Reason string // What was expected
	Err    error  // Underlying error, if any
}

func (e *InputShapeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported input %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("unsupported input %s", e.Path)
}

func (e *InputShapeError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// DecodeError represents malformed interchange data. It always names the
// offending discriminator or field.
type DecodeError struct {
	Discriminator string // _type value being decoded, if known
	Field         string // Offending field, if any
	Path          string // Location in the tree (e.g., "/0/3/goals/1")
	Message       string // Error details
	Err           error  // Underlying error, if any
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("failed to decode")
	if e.Discriminator != "" {
		fmt.Fprintf(&b, " %q", e.Discriminator)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// OracleError carries a failure reported by the checking oracle. The message
// is the oracle's own and is never rewritten.
type OracleError struct {
	Oracle  string // Oracle name (e.g., "process", "lexical")
	Message string // Oracle-provided description
	Err     error  // Underlying error, if any
}

func (e *OracleError) Error() string {
	if e.Oracle != "" {
		return fmt.Sprintf("%s oracle: %s", e.Oracle, e.Message)
	}
	return e.Message
}

func (e *OracleError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrOracle
}

// PreconditionError is a programmer-facing contract violation. It is raised
// with panic and never recovered by the core.
type PreconditionError struct {
	Operation string
	Message   string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition violated: %s", e.Operation, e.Message)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewInputShape creates an InputShapeError
func NewInputShape(path, reason string) *InputShapeError {
	return &InputShapeError{
		Path:   path,
		Reason: reason,
	}
}

// NewDecode creates a DecodeError
func NewDecode(discriminator, field, path, message string) *DecodeError {
	return &DecodeError{
		Discriminator: discriminator,
		Field:         field,
		Path:          path,
		Message:       message,
	}
}

// NewOracle creates an OracleError
func NewOracle(oracle, message string) *OracleError {
	return &OracleError{
		Oracle:  oracle,
		Message: message,
	}
}

// Precondition panics with a PreconditionError when ok is false.
func Precondition(ok bool, operation, format string, args ...interface{}) {
	if !ok {
		panic(&PreconditionError{Operation: operation, Message: fmt.Sprintf(format, args...)})
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Unwrap wraps errors.Unwrap for convenience
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Condense returns the message of the innermost typed error in err's chain,
// dropping the wrapping context. Untyped chains return err.Error().
func Condense(err error) string {
	if err == nil {
		return ""
	}
	var (
		shape  *InputShapeError
		decode *DecodeError
		oracle *OracleError
		valid  *ValidationError
		io     *IOError
		nf     *NotFoundError
	)
	switch {
	case errors.As(err, &oracle):
		return oracle.Message
	case errors.As(err, &decode):
		return decode.Error()
	case errors.As(err, &shape):
		return shape.Error()
	case errors.As(err, &valid):
		return valid.Error()
	case errors.As(err, &nf):
		return nf.Error()
	case errors.As(err, &io):
		return io.Error()
	}
	return err.Error()
}
