package panelgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/okian/cohort/pkg/logger"
)

const (
	retryWaitMin = 100 * time.Millisecond
	retryWaitMax = 2 * time.Second
)

// HTTPClient wraps a retrying http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a client that retries connection errors and 5xx
// responses up to retries times. The last response is returned as is.
func newHTTPClient(timeout time.Duration, retries int) *HTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = max(retries, 0)
	retryClient.RetryWaitMin = retryWaitMin
	retryClient.RetryWaitMax = retryWaitMax
	retryClient.HTTPClient.Timeout = timeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = retryLogger{log: logger.Named("http")}

	return &HTTPClient{client: retryClient.StandardClient()}
}

// retryLogger routes retryablehttp logs to the debug level.
type retryLogger struct {
	log logger.Logger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.emit(msg, kv) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.emit(msg, kv) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.emit(msg, kv) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.emit(msg, kv) }

func (l retryLogger) emit(msg string, kv []interface{}) {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, logger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	l.log.Debug(context.Background(), msg, fields...)
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Fields   []string `json:"fields"`
	Total    int      `json:"total"`
	Returned int      `json:"returned"`
}

// runQueries sends every query to /search with cfg.Workers workers. Results
// keep the order of queries.
func runQueries(ctx context.Context, cfg *Config, queries []string) []QueryResult {
	logger.Get().Info(ctx, "running smoke queries", logger.Int("queries", len(queries)), logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg.Timeout, cfg.Retries)
	url := cfg.BaseURL + "/search"
	results := make([]QueryResult, len(queries))

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < max(cfg.Workers, 1); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = runSingleQuery(ctx, client, url, queries[i])
			}
		}()
	}

	for i := range queries {
		select {
		case <-ctx.Done():
		case indexes <- i:
			continue
		}
		// Unsent queries report the cancellation.
		for j := i; j < len(queries); j++ {
			results[j] = QueryResult{Query: queries[j], Err: ctx.Err()}
		}
		break
	}
	close(indexes)
	wg.Wait()

	return results
}

// runSingleQuery posts one query and decodes the search result.
func runSingleQuery(ctx context.Context, client *HTTPClient, url, text string) QueryResult {
	res := QueryResult{Query: text}
	start := time.Now()

	resp, err := client.Post(ctx, url, searchRequest{Query: text})
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	res.Latency = time.Since(start)
	if err != nil {
		res.Err = fmt.Errorf("read response: %w", err)
		return res
	}
	if resp.StatusCode != http.StatusOK {
		res.Err = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		return res
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		res.Err = fmt.Errorf("decode response: %w", err)
		return res
	}
	res.Total, res.Returned, res.Fields = sr.Total, sr.Returned, sr.Fields
	return res
}
