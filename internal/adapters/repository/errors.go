package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrNotFound          = errors.New("person not found")
	ErrDuplicateID       = errors.New("duplicate person id")
	ErrLoadPanel         = errors.New("load panel failed")
	ErrUnsupportedFormat = errors.New("unsupported panel format")
	ErrClosed            = errors.New("store closed")
)
