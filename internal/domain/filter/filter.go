// Package filter applies a FilterSpec to a collection of people.
package filter

import (
	"strings"

	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/internal/domain/textnorm"
)

// defaultCountry mirrors the interpreter's default country placeholder.
const defaultCountry = "canada"

// Filter evaluates FilterSpecs against people. It holds no per-call state
// and is safe for concurrent use.
type Filter struct {
	countries []string
}

// New creates a Filter configured by opts.
func New(opts ...Option) *Filter {
	f := &Filter{countries: []string{defaultCountry}}

	for _, opt := range opts {
		opt(f)
	}

	folded := make([]string, 0, len(f.countries))
	for _, c := range f.countries {
		folded = append(folded, textnorm.Fold(c))
	}
	f.countries = folded
	return f
}

// Apply returns the people matching spec, in their original order. The input
// slice is never modified. An empty spec returns every person.
func (f *Filter) Apply(spec model.FilterSpec, people []model.Person) []model.Person {
	out := make([]model.Person, 0, len(people))
	c := f.compile(spec)
	for _, p := range people {
		if c.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether a single person satisfies every present constraint.
func (f *Filter) Matches(spec model.FilterSpec, p model.Person) bool {
	return f.compile(spec).matches(p)
}

// IsCountryPlaceholder reports whether location denotes a whole country.
func (f *Filter) IsCountryPlaceholder(location string) bool {
	folded := textnorm.Fold(location)
	for _, c := range f.countries {
		if folded == c {
			return true
		}
	}
	return false
}

// compiled is a spec with its string values folded once per call.
type compiled struct {
	ageMin, ageMax *int
	gender         *string
	generation     *string
	location       *string
	industry       *string
}

func (f *Filter) compile(spec model.FilterSpec) compiled {
	c := compiled{
		ageMin:     spec.AgeMin,
		ageMax:     spec.AgeMax,
		gender:     foldPtr(spec.Gender),
		generation: foldPtr(spec.Generation),
		industry:   foldPtr(spec.Industry),
	}
	if spec.Location != nil && !f.IsCountryPlaceholder(*spec.Location) {
		c.location = foldPtr(spec.Location)
	}
	return c
}

func (c compiled) matches(p model.Person) bool {
	if c.ageMin != nil && p.Age < *c.ageMin {
		return false
	}
	if c.ageMax != nil && p.Age > *c.ageMax {
		return false
	}
	if c.gender != nil && textnorm.Fold(p.Gender) != *c.gender {
		return false
	}
	if c.generation != nil && textnorm.Fold(p.Generation) != *c.generation {
		return false
	}
	if c.location != nil && !contains(p.Location, *c.location) {
		return false
	}
	if c.industry != nil && !contains(p.Industry, *c.industry) {
		return false
	}
	return true
}

var defaultFilter = New()

// Apply filters people with the default country placeholder.
func Apply(spec model.FilterSpec, people []model.Person) []model.Person {
	return defaultFilter.Apply(spec, people)
}

// Matches checks one person with the default country placeholder.
func Matches(spec model.FilterSpec, p model.Person) bool {
	return defaultFilter.Matches(spec, p)
}

func foldPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := textnorm.Fold(*s)
	return &v
}

func contains(haystack, foldedNeedle string) bool {
	return strings.Contains(textnorm.Fold(haystack), foldedNeedle)
}
