package domain

import "errors"

var (
	// ErrValidation is returned for malformed or missing request fields.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupported is returned when an input was classified but no adapter serves it.
	ErrUnsupported = errors.New("unsupported or unknown input")

	// ErrDuplicate is returned when a client already posted a comment for a key.
	ErrDuplicate = errors.New("you have already posted a comment")
)
