package panelgen

import "time"

// Config holds configuration for a panel generation run.
type Config struct {
	NumPeople  int           // Number of people to generate
	Seed       int64         // Seed for reproducible panels
	Workers    int           // Number of concurrent workers
	OutputFile string        // Panel file; .yaml, .yml or .json
	BaseURL    string        // Service to smoke test; empty skips the smoke run
	Queries    []string      // Queries sent to /search during the smoke run
	Timeout    time.Duration // HTTP request timeout
	Retries    int           // Retries per smoke request on connection errors and 5xx
	RedisURL   string        // Redis to publish the panel to; empty skips publishing
	RedisKey   string        // Redis hash holding the panel
	Verbose    bool          // Log every query result
	// Now anchors the birth-year arithmetic. Zero means time.Now().
	Now time.Time
}

// QueryResult is the outcome of one smoke query.
type QueryResult struct {
	Query    string
	Status   int
	Total    int
	Returned int
	Fields   []string
	Latency  time.Duration
	Err      error
}

// Stats holds run statistics.
type Stats struct {
	PeopleGenerated int
	QueriesSent     int
	QueriesFailed   int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// DefaultQueries are used when Config.Queries is empty.
var DefaultQueries = []string{
	"Millennial women in Toronto working in fintech",
	"People in Toronto age 28-32",
	"Gen Z men in Vancouver",
	"Gen X women in Ontario working in healthcare",
	"Canadian people aged 40 to 50",
	"men in marketing",
}
