package query

// Keywords holds the ordered keyword lists used by the location and industry
// passes. Within a list, earlier entries win over later ones, so more specific
// terms ("fintech", "quebec city") must precede the terms they contain
// ("tech", "quebec").
type Keywords struct {
	Cities     []string
	Provinces  []string
	Industries []string

	// Country is the location value set for a country-wide mention. It is
	// detected but never enforced when filtering.
	Country string
	// CountryAliases are the tokens that count as a mention of Country.
	CountryAliases []string
}

// DefaultCountry is the country placeholder used when none is configured.
const DefaultCountry = "canada"

// DefaultKeywords returns a fresh copy of the built-in keyword lists.
func DefaultKeywords() Keywords {
	return Keywords{
		Cities: []string{
			"toronto",
			"vancouver",
			"montreal",
			"calgary",
			"ottawa",
			"edmonton",
			"winnipeg",
			"quebec city",
			"hamilton",
			"halifax",
			"victoria",
			"saskatoon",
			"regina",
			"mississauga",
			"waterloo",
		},
		Provinces: []string{
			"ontario",
			"british columbia",
			"quebec",
			"alberta",
			"manitoba",
			"saskatchewan",
			"nova scotia",
			"new brunswick",
			"newfoundland",
			"prince edward island",
		},
		Industries: []string{
			"fintech",
			"finance",
			"banking",
			"accounting",
			"software",
			"technology",
			"tech",
			"marketing",
			"advertising",
			"design",
			"operations",
			"logistics",
			"healthcare",
			"education",
			"retail",
		},
		Country:        DefaultCountry,
		CountryAliases: []string{"canada", "canadian"},
	}
}
