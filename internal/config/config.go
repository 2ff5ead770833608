// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and COHORT_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the record source: memory, postgres or redis.
	Store string `koanf:"store"`

	// PanelPath points at a YAML or JSON panel file loaded by the memory store.
	PanelPath string `koanf:"panel_path"`

	// DatabaseURL is the Postgres connection string used by the postgres store.
	DatabaseURL string `koanf:"database_url"`

	// PeopleTable is the Postgres table holding panel records.
	PeopleTable string `koanf:"people_table"`

	// RedisURL is the connection URL used by the redis store.
	RedisURL string `koanf:"redis_url"`

	// RedisKey is the Redis hash holding panel records, one JSON person per field.
	RedisKey string `koanf:"redis_key"`

	// ReloadSchedule is a cron spec ("@every 5m", "0 * * * *") for re-reading
	// PanelPath into the memory store. Empty disables reloading.
	ReloadSchedule string `koanf:"reload_schedule"`

	// MaxResults caps the number of people returned by a search.
	MaxResults int `koanf:"max_results"`

	// Keywords overrides the interpreter keyword lists. Empty lists keep the built-in ones.
	Keywords Keywords `koanf:"keywords"`
}

// Keywords mirrors the ordered keyword lists of the query interpreter.
type Keywords struct {
	Cities         []string `koanf:"cities"`
	Provinces      []string `koanf:"provinces"`
	Industries     []string `koanf:"industries"`
	Country        string   `koanf:"country"`
	CountryAliases []string `koanf:"country_aliases"`
}

// Store kinds.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Addr:        ":9080",
		Store:       StoreMemory,
		PeopleTable: "people",
		RedisKey:    "cohort:people",
		MaxResults:  500,
	}
}
