package query

// Option applies a configuration option to the Interpreter.
type Option func(*Interpreter)

// WithCities replaces the ordered city list. Empty input keeps the defaults.
func WithCities(cities []string) Option {
	return func(i *Interpreter) {
		if len(cities) > 0 {
			i.keywords.Cities = cities
		}
	}
}

// WithProvinces replaces the ordered province/region list. Empty input keeps the defaults.
func WithProvinces(provinces []string) Option {
	return func(i *Interpreter) {
		if len(provinces) > 0 {
			i.keywords.Provinces = provinces
		}
	}
}

// WithIndustries replaces the ordered industry list. Empty input keeps the defaults.
func WithIndustries(industries []string) Option {
	return func(i *Interpreter) {
		if len(industries) > 0 {
			i.keywords.Industries = industries
		}
	}
}

// WithCountry sets the country placeholder and the tokens that detect it.
// When aliases is empty the country name itself is the only alias.
func WithCountry(country string, aliases []string) Option {
	return func(i *Interpreter) {
		if country == "" {
			return
		}
		i.keywords.Country = country
		if len(aliases) > 0 {
			i.keywords.CountryAliases = aliases
		} else {
			i.keywords.CountryAliases = []string{country}
		}
	}
}

// WithKeywords replaces every non-empty list in k.
func WithKeywords(k Keywords) Option {
	return func(i *Interpreter) {
		WithCities(k.Cities)(i)
		WithProvinces(k.Provinces)(i)
		WithIndustries(k.Industries)(i)
		WithCountry(k.Country, k.CountryAliases)(i)
	}
}
