package engine

import (
	"errors"
	"fmt"
)

// Error represents a domain failure raised by an engine operation.
//
// Validation errors mean the operation mutated nothing. Not-found errors
// are non-fatal: the operation was a no-op, except for undo's documented
// behavior of leaving the ledger popped when no slot matches.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Slot identifies the affected slot, when one is involved.
	Slot string

	// Name identifies the affected participant name, when one is involved.
	Name string
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeInvalidName indicates a name outside the 2-4 character bound.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"

	// ErrCodeDuplicateName indicates the name is already bound to a
	// different slot in the same preset.
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"

	// ErrCodeUnknownSlot indicates a key outside the fixed slot set.
	ErrCodeUnknownSlot ErrorCode = "UNKNOWN_SLOT"

	// ErrCodeInvalidPreset indicates a preset index outside 0..2.
	ErrCodeInvalidPreset ErrorCode = "INVALID_PRESET"

	// ErrCodeSlotUnbound indicates an operation on a slot with no user.
	ErrCodeSlotUnbound ErrorCode = "SLOT_UNBOUND"

	// ErrCodeNothingToUndo indicates undo on an empty ledger.
	ErrCodeNothingToUndo ErrorCode = "NOTHING_TO_UNDO"

	// ErrCodeNotFound indicates no slot matched the popped ledger entry.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Slot != "" && e.Name != "":
		return fmt.Sprintf("%s: %s (slot=%s, name=%s)", e.Code, e.Message, e.Slot, e.Name)
	case e.Slot != "":
		return fmt.Sprintf("%s: %s (slot=%s)", e.Code, e.Message, e.Slot)
	case e.Name != "":
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsValidation reports whether err is a validation error: the operation
// was rejected before any state change.
func IsValidation(err error) bool {
	var ee *Error
	if !errors.As(err, &ee) {
		return false
	}
	switch ee.Code {
	case ErrCodeInvalidName, ErrCodeDuplicateName, ErrCodeUnknownSlot, ErrCodeInvalidPreset:
		return true
	}
	return false
}

// IsNotFound reports whether err is a non-fatal not-found error.
func IsNotFound(err error) bool {
	var ee *Error
	if !errors.As(err, &ee) {
		return false
	}
	switch ee.Code {
	case ErrCodeSlotUnbound, ErrCodeNothingToUndo, ErrCodeNotFound:
		return true
	}
	return false
}

func newInvalidNameError(name string) *Error {
	return &Error{
		Code:    ErrCodeInvalidName,
		Message: "name must be 2-4 characters",
		Name:    name,
	}
}

func newDuplicateNameError(name, boundSlot string) *Error {
	return &Error{
		Code:    ErrCodeDuplicateName,
		Message: "name already bound to another slot in this preset",
		Slot:    boundSlot,
		Name:    name,
	}
}

func newUnknownSlotError(slot string) *Error {
	return &Error{
		Code:    ErrCodeUnknownSlot,
		Message: "no such slot",
		Slot:    slot,
	}
}

func newSlotUnboundError(slot string) *Error {
	return &Error{
		Code:    ErrCodeSlotUnbound,
		Message: "slot has no bound user",
		Slot:    slot,
	}
}
