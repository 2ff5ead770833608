package panelgen

import (
	"fmt"
	"os"

	"github.com/okian/cohort/pkg/logger"
)

// SetupLogging initializes the global logger for the tool.
func SetupLogging(format string, verbose bool) error {
	if err := logger.Init(logger.WithFormat(format), logger.WithOutput(os.Stderr)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the panel generator.
func ShowHelp() {
	os.Stdout.WriteString(`Cohort Panel Generator
======================

Generates a synthetic audience panel and optionally smoke tests a running
cohort service with sample queries.

Usage:
  go run ./cmd/panel-gen [options]

Options:
  -people int
        Number of people to generate (default 1000)
  -seed int
        Seed for reproducible panels (default 1)
  -workers int
        Number of concurrent workers (default CPU cores)
  -output string
        Panel file, .yaml/.yml or .json (default "panel.yaml")
  -url string
        Base URL of a running service; empty skips the smoke run
  -query string
        Query to send to /search; repeatable (default: built-in samples)
  -timeout duration
        HTTP request timeout (default 10s)
  -retries int
        Retries per smoke request on connection errors and 5xx (default 3)
  -redis-url string
        Redis URL to publish the panel to; empty skips publishing
  -redis-key string
        Redis hash holding the panel (default "cohort:people")
  -log-format string
        Log format, text or json (default "text")
  -verbose
        Log every query result
  -help
        Show this help message

Examples:
  # Write 5000 people to a JSON panel
  go run ./cmd/panel-gen -people 5000 -output data/panel.json

  # Generate and smoke test a local service
  go run ./cmd/panel-gen -url http://localhost:9080 -query "Gen Z men in Vancouver"

  # Publish a panel for a service running with COHORT_STORE=redis
  go run ./cmd/panel-gen -redis-url redis://localhost:6379/0
`)
}
