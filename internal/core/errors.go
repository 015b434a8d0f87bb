package core

import (
	"errors"
	"fmt"
)

// StorageError reports a durable store failure. The in-memory checklist has
// already been updated when a commit or delete returns it, so the session keeps
// the edit and callers surface it as a notice.
type StorageError struct {
	Op     string
	Driver StorageDriver
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed (%s): %v", e.Op, e.Driver, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError reports whether err carries a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ErrUnknownOperator is returned when the catalog has no entry for an operator.
type ErrUnknownOperator struct {
	Name        string
	Suggestions []string
}

func (e ErrUnknownOperator) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown operator %q", e.Name)
	}
	return fmt.Sprintf("unknown operator %q (did you mean %q?)", e.Name, e.Suggestions[0])
}

// ErrUnknownGoal is returned when a goal is not offered for the selected operator.
type ErrUnknownGoal struct {
	OperatorName string
	Name         string
}

func (e ErrUnknownGoal) Error() string {
	return fmt.Sprintf("operator %s has no goal %q", e.OperatorName, e.Name)
}

// ErrNoOperatorSelected is returned by selection operations that need an operator.
var ErrNoOperatorSelected = errors.New("no operator selected")
