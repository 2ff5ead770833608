// Package types contains common types used across the application
package types

import "github.com/okian/cohort/internal/domain/model"

// SpecView is the read shape of an interpreted query.
type SpecView struct {
	Query   string           `json:"query"`
	Filter  model.FilterSpec `json:"filter"`
	Fields  []string         `json:"fields"`
	Summary string           `json:"summary"`
}

// SearchResult is returned by a search. Total counts every match; People may
// be truncated to the configured result cap.
type SearchResult struct {
	SpecView
	Total    int            `json:"total"`
	Returned int            `json:"returned"`
	People   []model.Person `json:"people"`
}

// NewSpecView builds the read shape for spec.
func NewSpecView(query string, spec model.FilterSpec) SpecView {
	return SpecView{
		Query:   query,
		Filter:  spec,
		Fields:  spec.Fields(),
		Summary: spec.String(),
	}
}
