package models

import "errors"

// Error constants for consent operations
var (
	ErrDuplicatePhone  = errors.New("phone number already consented")
	ErrConsentNotFound = errors.New("consent record not found")
	ErrInvalidPhone    = errors.New("invalid phone number")
)
