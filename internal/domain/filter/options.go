package filter

// Option applies a configuration option to the Filter.
type Option func(*Filter)

// WithCountryPlaceholders sets the location values that denote a whole
// country. Such values are accepted in a spec but never constrain records.
// Empty input keeps the default.
func WithCountryPlaceholders(countries ...string) Option {
	return func(f *Filter) {
		if len(countries) > 0 {
			f.countries = countries
		}
	}
}
