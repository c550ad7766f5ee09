package repository

import "errors"

// Errors reported by Browser implementations. Callers classify with errors.Is.
var (
	ErrElementNotFound = errors.New("element not found")
	ErrTimeout         = errors.New("browser operation timed out")
	ErrTransport       = errors.New("browser connection lost")
)
