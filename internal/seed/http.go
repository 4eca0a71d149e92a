package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// secretHeader matches the gate header expected by the service.
const secretHeader = "X-Duorank-Secret"

// HTTPClient wraps http.Client with timeout and the shared secret
type HTTPClient struct {
	client *http.Client
	secret string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration, secret string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		secret: secret,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.secret != "" {
		req.Header.Set(secretHeader, c.secret)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set(secretHeader, c.secret)
	}
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitScores submits score submissions concurrently using worker pools
func submitScores(ctx context.Context, config *Config, scores []Score, stats *Stats) error {
	log.Printf("📤 Submitting %d scores with %d workers...", len(scores), config.Workers)

	client := newHTTPClient(config.Timeout, config.Secret)
	url := config.BaseURL + "/scores"

	// Counters for statistics
	var (
		successful int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	scoreChan := make(chan Score, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for score := range scoreChan {
				select {
				case <-ctx.Done():
					return
				default:
					ok := submitSingleScore(ctx, client, url, score)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					if ok {
						atomic.AddInt64(&successful, 1)
					} else {
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (success: %d, failed: %d)",
								total, len(scores), succ, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (success: %d, failed: %d)",
								total, len(scores), succ, fail)
						}
					}
				}
			}
		}()
	}

	// Send submissions to workers
	go func() {
		defer close(scoreChan)
		for _, score := range scores {
			select {
			case <-ctx.Done():
				return
			case scoreChan <- score:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.ScoresSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ScoresSuccessful = int(atomic.LoadInt64(&successful))
	stats.ScoresFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Score submission completed:
   Successful: %d
   Failed: %d
`, stats.ScoresSuccessful, stats.ScoresFailed)

	return nil
}

// submitSingleScore submits a single score and reports success.
func submitSingleScore(ctx context.Context, client *HTTPClient, url string, score Score) bool {
	resp, err := client.Post(ctx, url, score)
	if err != nil {
		return false
	}
	_, err = readResponseBody(resp)
	if err != nil {
		return false
	}
	return resp.StatusCode == StatusOK
}
