package model

import (
	"strconv"
	"strings"
)

// Field names reported by FilterSpec.Fields, in evaluation order.
const (
	FieldAge        = "age"
	FieldGender     = "gender"
	FieldGeneration = "generation"
	FieldLocation   = "location"
	FieldIndustry   = "industry"
)

// FilterSpec holds the constraints derived from a query. A nil field means
// the corresponding constraint is absent.
//
// AgeMin and AgeMax are set together or not at all.
type FilterSpec struct {
	AgeMin     *int    `json:"age_min,omitempty"`
	AgeMax     *int    `json:"age_max,omitempty"`
	Gender     *string `json:"gender,omitempty"`
	Generation *string `json:"generation,omitempty"`
	Location   *string `json:"location,omitempty"`
	Industry   *string `json:"industry,omitempty"`
}

// HasAgeRange reports whether both age bounds are present.
func (f FilterSpec) HasAgeRange() bool {
	return f.AgeMin != nil && f.AgeMax != nil
}

// IsEmpty reports whether no constraint is present (the spec matches everything).
func (f FilterSpec) IsEmpty() bool {
	return len(f.Fields()) == 0
}

// Fields lists the names of the constraints that are present.
func (f FilterSpec) Fields() []string {
	fields := make([]string, 0, 5)
	if f.AgeMin != nil || f.AgeMax != nil {
		fields = append(fields, FieldAge)
	}
	if f.Gender != nil {
		fields = append(fields, FieldGender)
	}
	if f.Generation != nil {
		fields = append(fields, FieldGeneration)
	}
	if f.Location != nil {
		fields = append(fields, FieldLocation)
	}
	if f.Industry != nil {
		fields = append(fields, FieldIndustry)
	}
	return fields
}

// String renders the spec as space separated key=value pairs, e.g.
// "age=28-32 gender=Women location=toronto". An empty spec renders as "".
func (f FilterSpec) String() string {
	parts := make([]string, 0, 5)
	if f.HasAgeRange() {
		parts = append(parts, "age="+strconv.Itoa(*f.AgeMin)+"-"+strconv.Itoa(*f.AgeMax))
	}
	if f.Gender != nil {
		parts = append(parts, "gender="+*f.Gender)
	}
	if f.Generation != nil {
		parts = append(parts, "generation="+*f.Generation)
	}
	if f.Location != nil {
		parts = append(parts, "location="+*f.Location)
	}
	if f.Industry != nil {
		parts = append(parts, "industry="+*f.Industry)
	}
	return strings.Join(parts, " ")
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
