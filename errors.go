package schemaup

import "fmt"

// SpecError is returned when a SchemaSpec cannot supply the step the engine
// needs: no install path for a virgin database, a missing upgrade step, or a
// missing install-at-version script. It never implies any database mutation
// beyond what had already committed.
type SpecError struct {
	Message string
}

// Error implements the error interface for SpecError.
func (err *SpecError) Error() string {
	return err.Message
}

// NewSpecErrorf builds a SpecError from a format string.
func NewSpecErrorf(format string, args ...interface{}) *SpecError {
	return &SpecError{Message: fmt.Sprintf(format, args...)}
}

// ExecError is returned when the database rejects an operation: a statement,
// the version bookkeeping write, or the commit itself. Version is the schema
// version the engine was transitioning to when the operation failed, and Op
// names the operation. The driver's own error is kept and can be unwrapped.
type ExecError struct {
	Version int
	Op      string
	Err     error
}

// Error implements the error interface for ExecError. Version 0 marks a
// failure before any step was resolved, such as reading the bookkeeping
// table, and is left out of the message.
func (err *ExecError) Error() string {
	if err.Version == 0 {
		return fmt.Sprintf("%s: %s", err.Op, err.Err)
	}
	return fmt.Sprintf("migrating to version %d: %s: %s", err.Version, err.Op, err.Err)
}

// Unwrap returns the underlying driver error.
func (err *ExecError) Unwrap() error {
	return err.Err
}

// NewExecError wraps a driver error with the version being transitioned to
// and the operation that failed.
func NewExecError(version int, op string, err error) *ExecError {
	return &ExecError{Version: version, Op: op, Err: err}
}
