// Package repository provides the record sources the search service filters.
package repository

import (
	"context"

	"github.com/okian/cohort/internal/domain/model"
)

// Store provides read access to the panel of people.
type Store interface {
	// All returns every person in a stable order. Callers must not modify
	// the returned slice.
	All(ctx context.Context) ([]model.Person, error)

	// Get returns a single person. Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.Person, error)

	// Count returns the number of people in the store.
	Count(ctx context.Context) int

	// Close releases resources held by the store.
	Close() error
}
