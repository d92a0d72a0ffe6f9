package labels

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. ValidationError and StorageError match them.
var (
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
)

// Messages shown for input errors.
const (
	MsgMissingFields   = "Please fill in all fields."
	MsgInvalidQuantity = "Please enter a valid positive number for quantity."

	// MsgQuantityTooLarge takes the number of serials still available.
	MsgQuantityTooLarge = "Only %d serial numbers are left. Please enter a smaller quantity."
)

// ValidationError reports bad user input. Nothing is written when it is returned.
type ValidationError struct {
	Fields []string // offending field names, if any
	Reason string   // message for the user
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s (missing: %s)", e.Reason, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a failure of the record store. It is fatal to the current
// action only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
