// Package query turns free-form audience descriptions into a FilterSpec.
//
// Extraction is a fixed sequence of independent passes over the folded query
// text: age, gender, generation, location and industry. No pass sees the
// result of another. Within a pass the first rule or keyword that matches
// wins, so the order of rules and keyword lists is the precedence.
//
// Interpret never fails: text that matches nothing yields an empty spec.
package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/internal/domain/textnorm"
)

// singleAgeSpread is the half-width of the range built from a single age.
const singleAgeSpread = 2

var (
	// "age 25-35", "ages between 25 and 35", "age range 25 to 35", "age 25 35".
	ageRangeRegex = regexp.MustCompile(`\b(?:age|ages|aged)\s+(?:range\s+)?(?:(?:around|between|about)\s+)?(\d+)(?:\s*[-–]\s*|\s+(?:to|and)\s+|\s+)(\d+)`)
	// "age 30", "age around 30", "aged about 30".
	ageSingleRegex = regexp.MustCompile(`\b(?:age|ages|aged)\s+(?:(?:around|about)\s+)?(\d+)`)
)

// rule maps any of its terms to a single value.
type rule struct {
	value string
	terms []string
}

// The women rule must precede the men rule: "women" contains "men" and
// "female" contains "male".
var genderRules = []rule{
	{value: model.GenderWomen, terms: []string{"women", "female"}},
	{value: model.GenderMen, terms: []string{"men", "male"}},
}

// Gen Z is checked before Millennial before Gen X.
var generationRules = []rule{
	{value: model.GenerationGenZ, terms: []string{"gen z", "generation z"}},
	{value: model.GenerationMillennial, terms: []string{"millennial", "gen y"}},
	{value: model.GenerationGenX, terms: []string{"gen x", "generation x"}},
}

// Interpreter extracts a FilterSpec from query text. It is immutable after
// construction and safe for concurrent use.
type Interpreter struct {
	keywords Keywords
}

// New creates an Interpreter using DefaultKeywords, adjusted by opts.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{keywords: DefaultKeywords()}

	for _, opt := range opts {
		opt(i)
	}

	i.keywords = foldKeywords(i.keywords)
	return i
}

// Keywords returns a copy of the folded keyword lists in use.
func (i *Interpreter) Keywords() Keywords {
	return Keywords{
		Cities:         append([]string(nil), i.keywords.Cities...),
		Provinces:      append([]string(nil), i.keywords.Provinces...),
		Industries:     append([]string(nil), i.keywords.Industries...),
		Country:        i.keywords.Country,
		CountryAliases: append([]string(nil), i.keywords.CountryAliases...),
	}
}

// Interpret derives a FilterSpec from text.
func (i *Interpreter) Interpret(text string) model.FilterSpec {
	var spec model.FilterSpec

	folded := textnorm.Fold(text)
	if strings.TrimSpace(folded) == "" {
		return spec
	}

	spec.AgeMin, spec.AgeMax = extractAge(folded)
	spec.Gender = firstRule(folded, genderRules)
	spec.Generation = firstRule(folded, generationRules)
	spec.Location = i.extractLocation(folded)
	spec.Industry = firstKeyword(folded, i.keywords.Industries)

	return spec
}

var defaultInterpreter = New()

// Interpret derives a FilterSpec from text using the default keyword lists.
func Interpret(text string) model.FilterSpec {
	return defaultInterpreter.Interpret(text)
}

// extractAge returns both bounds or neither. A range is taken verbatim, even
// when the first number is larger than the second. A single age whose
// spread would overflow int is no match.
func extractAge(text string) (*int, *int) {
	if m := ageRangeRegex.FindStringSubmatch(text); m != nil {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo == nil && errHi == nil {
			return &lo, &hi
		}
	}

	if m := ageSingleRegex.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		// n is non-negative, so only the upper bound can overflow.
		if err == nil && n <= math.MaxInt-singleAgeSpread {
			lo, hi := n-singleAgeSpread, n+singleAgeSpread
			return &lo, &hi
		}
	}

	return nil, nil
}

func (i *Interpreter) extractLocation(text string) *string {
	if loc := firstKeyword(text, i.keywords.Cities); loc != nil {
		return loc
	}
	if loc := firstKeyword(text, i.keywords.Provinces); loc != nil {
		return loc
	}
	if i.keywords.Country != "" && firstKeyword(text, i.keywords.CountryAliases) != nil {
		country := i.keywords.Country
		return &country
	}
	return nil
}

func firstRule(text string, rules []rule) *string {
	for _, r := range rules {
		for _, term := range r.terms {
			if strings.Contains(text, term) {
				v := r.value
				return &v
			}
		}
	}
	return nil
}

func firstKeyword(text string, keywords []string) *string {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			v := kw
			return &v
		}
	}
	return nil
}

func foldKeywords(k Keywords) Keywords {
	return Keywords{
		Cities:         foldAll(k.Cities),
		Provinces:      foldAll(k.Provinces),
		Industries:     foldAll(k.Industries),
		Country:        textnorm.Fold(k.Country),
		CountryAliases: foldAll(k.CountryAliases),
	}
}

func foldAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, textnorm.Fold(strings.TrimSpace(s)))
	}
	return out
}
