package core

import "errors"

var (
	// ErrUnknownTable is returned when a table key is not registered.
	ErrUnknownTable = errors.New("unknown table")

	// ErrInvalidSelection is returned for an unrecognised selection mode.
	ErrInvalidSelection = errors.New("invalid selection mode")

	// ErrInvalidID is returned when a record identifier cannot be parsed.
	ErrInvalidID = errors.New("invalid record id")

	// ErrConfirmationRequired is returned when a delete that would clear the
	// whole table arrives without a confirmation token.
	ErrConfirmationRequired = errors.New("confirmation required")
)
