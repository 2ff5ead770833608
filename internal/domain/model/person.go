// Package model contains domain models passed between layers.
package model

// Person is a single panel member. Only Age, Gender, Generation, Location
// and Industry take part in filtering.
type Person struct {
	ID         string            `json:"id" yaml:"id"`
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Age        int               `json:"age" yaml:"age"`
	Gender     string            `json:"gender" yaml:"gender"`
	Generation string            `json:"generation" yaml:"generation"`
	Location   string            `json:"location" yaml:"location"`
	Industry   string            `json:"industry" yaml:"industry"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Gender values produced by query interpretation.
const (
	GenderWomen = "Women"
	GenderMen   = "Men"
)

// Generation values produced by query interpretation.
const (
	GenerationGenZ       = "Gen Z"
	GenerationMillennial = "Millennial"
	GenerationGenX       = "Gen X"
)
