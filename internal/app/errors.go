package service

import "errors"

var (
	// ErrNotStarted is returned when a store-backed operation runs before Start.
	ErrNotStarted = errors.New("service not started")

	// ErrReloadUnsupported is returned when the panel cannot be reloaded
	// because the service is not serving a panel file from memory.
	ErrReloadUnsupported = errors.New("panel reload needs a memory store and a panel path")
)
