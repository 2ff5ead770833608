package panelgen

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/internal/domain/query"
	"github.com/okian/cohort/pkg/logger"
)

// Age bounds of generated people, inclusive.
const (
	minAge = 18
	maxAge = 65
)

// Birth-year boundaries of the generation labels.
const (
	genZFirstYear       = 1997
	millennialFirstYear = 1981
	genXFirstYear       = 1965
)

// GenerationBoomer labels people born before Gen X. Queries cannot select it.
const GenerationBoomer = "Baby Boomer"

// provinceCodes maps the default cities to their province abbreviation.
var provinceCodes = map[string]string{
	"toronto":     "ON",
	"vancouver":   "BC",
	"montreal":    "QC",
	"calgary":     "AB",
	"ottawa":      "ON",
	"edmonton":    "AB",
	"winnipeg":    "MB",
	"quebec city": "QC",
	"hamilton":    "ON",
	"halifax":     "NS",
	"victoria":    "BC",
	"saskatoon":   "SK",
	"regina":      "SK",
	"mississauga": "ON",
	"waterloo":    "ON",
}

var (
	firstNames = []string{"Alex", "Sam", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Avery", "Jamie", "Quinn", "Robin", "Drew"}
	lastNames  = []string{"Tremblay", "Martin", "Roy", "Gagnon", "Lee", "Wilson", "Singh", "Chen", "Brown", "MacDonald", "Nguyen", "Patel"}
	incomes    = []string{"under 50k", "50k-100k", "100k-150k", "over 150k"}
	genders    = []string{model.GenderWomen, model.GenderMen}
)

// generator holds the title-cased value pools drawn from.
type generator struct {
	seed       int64
	year       int
	locations  []string
	industries []string
}

func newGenerator(seed int64, now time.Time) *generator {
	title := cases.Title(language.English)
	kw := query.DefaultKeywords()

	g := &generator{seed: seed, year: now.Year()}
	for _, city := range kw.Cities {
		loc := title.String(city)
		if code, ok := provinceCodes[city]; ok {
			loc += ", " + code
		}
		g.locations = append(g.locations, loc)
	}
	for _, industry := range kw.Industries {
		g.industries = append(g.industries, title.String(industry))
	}
	return g
}

// person builds the index-th person. The result depends only on the seed,
// the reference year and index.
func (g *generator) person(index int) model.Person {
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[0:], uint64(g.seed))
	binary.LittleEndian.PutUint64(seed[8:], uint64(index))
	src := rand.NewChaCha8(seed)
	rng := rand.New(src)

	id, err := uuid.NewRandomFromReader(src)
	if err != nil {
		id = uuid.New()
	}

	age := minAge + rng.IntN(maxAge-minAge+1)
	return model.Person{
		ID:         id.String(),
		Name:       pick(rng, firstNames) + " " + pick(rng, lastNames),
		Age:        age,
		Gender:     pick(rng, genders),
		Generation: GenerationFor(g.year - age),
		Location:   pick(rng, g.locations),
		Industry:   pick(rng, g.industries),
		Attributes: map[string]string{"income": pick(rng, incomes)},
	}
}

// GenerationFor returns the generation label for a birth year.
func GenerationFor(birthYear int) string {
	switch {
	case birthYear >= genZFirstYear:
		return model.GenerationGenZ
	case birthYear >= millennialFirstYear:
		return model.GenerationMillennial
	case birthYear >= genXFirstYear:
		return model.GenerationGenX
	default:
		return GenerationBoomer
	}
}

// Generate creates cfg.NumPeople people using cfg.Workers goroutines.
// The output is identical for the same seed and reference year regardless
// of the worker count.
func Generate(ctx context.Context, cfg *Config) ([]model.Person, error) {
	if cfg.NumPeople < 0 {
		return nil, fmt.Errorf("invalid panel size %d", cfg.NumPeople)
	}
	logger.Get().Info(ctx, "generating panel", logger.Int("people", cfg.NumPeople), logger.Int("workers", cfg.Workers))

	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	g := newGenerator(cfg.Seed, now)
	people := make([]model.Person, cfg.NumPeople)
	if cfg.NumPeople == 0 {
		return people, nil
	}

	workerCount := min(max(cfg.Workers, 1), cfg.NumPeople)
	perWorker := cfg.NumPeople / workerCount
	errs := make(chan error, workerCount)

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = cfg.NumPeople // Last worker gets the remainder
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					errs <- ctx.Err()
					return
				}
				people[i] = g.person(i)
			}
			errs <- nil
		}(start, end)
	}

	var firstErr error
	for worker := 0; worker < workerCount; worker++ {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, fmt.Errorf("context cancelled during generation: %w", firstErr)
	}

	logger.Get().Info(ctx, "generated panel", logger.Int("count", len(people)))
	return people, nil
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.IntN(len(values))]
}
