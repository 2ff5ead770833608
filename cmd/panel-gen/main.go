package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/cohort/internal/panelgen"
)

// Default configuration constants.
const (
	defaultNumPeople = 1000
	defaultSeed      = 1
	defaultOutput    = "panel.yaml"
	defaultTimeout   = 10 * time.Second
	defaultRetries   = 3
	defaultRedisKey  = "cohort:people"
	defaultRunTime   = 10 * time.Minute
)

func main() {
	var queries []string
	var (
		numPeople = flag.Int("people", defaultNumPeople, "Number of people to generate")
		seed      = flag.Int64("seed", defaultSeed, "Seed for reproducible panels")
		workers   = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		output    = flag.String("output", defaultOutput, "Panel file (.yaml, .yml or .json)")
		baseURL   = flag.String("url", "", "Base URL of a running service; empty skips the smoke run")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		retries   = flag.Int("retries", defaultRetries, "Retries per smoke request")
		redisURL  = flag.String("redis-url", "", "Redis URL to publish the panel to; empty skips publishing")
		redisKey  = flag.String("redis-key", defaultRedisKey, "Redis hash holding the panel")
		logFormat = flag.String("log-format", "text", "Log format: text or json")
		verbose   = flag.Bool("verbose", false, "Log every query result")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Func("query", "Query to send to /search (repeatable)", func(q string) error {
		queries = append(queries, q)
		return nil
	})
	flag.Parse()

	if *help {
		panelgen.ShowHelp()
		return
	}

	if err := panelgen.SetupLogging(*logFormat, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTime)
	defer cancel()

	cfg := &panelgen.Config{
		NumPeople:  *numPeople,
		Seed:       *seed,
		Workers:    *workers,
		OutputFile: *output,
		BaseURL:    *baseURL,
		Queries:    queries,
		Timeout:    *timeout,
		Retries:    *retries,
		RedisURL:   *redisURL,
		RedisKey:   *redisKey,
		Verbose:    *verbose,
	}

	if _, err := panelgen.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Panel generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
