package smoke

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"relbot/internal/logger"
)

// Result is the outcome of replaying one fixture.
type Result struct {
	Fixture    Fixture
	StatusCode int
	Duration   time.Duration
	Err        error
}

// OK reports whether the request reached the service and got a 2xx back.
func (r Result) OK() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Runner replays manifest fixtures against a service endpoint.
type Runner struct {
	endpoint string
	client   *http.Client
	logger   logger.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) RunnerOption {
	return func(r *Runner) {
		r.client = client
	}
}

// NewRunner creates a Runner targeting the given endpoint.
func NewRunner(endpoint string, log logger.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run replays every fixture in order. Individual failures are recorded and
// logged but never stop the run; there is no retry.
func (r *Runner) Run(ctx context.Context, m *Manifest) []Result {
	results := make([]Result, 0, len(m.Fixtures))

	for _, fixture := range m.Fixtures {
		result := r.runOne(ctx, fixture)
		results = append(results, result)

		if result.Err != nil {
			r.logger.Error("Fixture request failed",
				"fixture", fixture.Name,
				"method", fixture.Method,
				"path", fixture.Path,
				"error", result.Err,
			)
			continue
		}

		if result.OK() {
			r.logger.Info("Fixture request succeeded",
				"fixture", fixture.Name,
				"method", fixture.Method,
				"path", fixture.Path,
				"status", result.StatusCode,
			)
		} else {
			r.logger.Error("Fixture request returned non-2xx status",
				"fixture", fixture.Name,
				"method", fixture.Method,
				"path", fixture.Path,
				"status", result.StatusCode,
			)
		}
	}

	return results
}

func (r *Runner) runOne(ctx context.Context, fixture Fixture) Result {
	start := time.Now()
	result := Result{Fixture: fixture}

	var body io.Reader
	if fixture.Body != "" {
		body = strings.NewReader(fixture.Body)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(fixture.Method), r.endpoint+fixture.Path, body)
	if err != nil {
		result.Err = fmt.Errorf("failed to build request: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	if fixture.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range fixture.Headers {
		req.Header.Set(key, value)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	result.StatusCode = resp.StatusCode
	result.Duration = time.Since(start)
	return result
}
