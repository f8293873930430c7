/**
 * @description
 * Client for the remote reminder-sweep trigger endpoint. The scheduling
 * driver prefers this path; the caller falls back to an in-process sweep
 * when it fails.
 */
package triggerclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// Client triggers the reminder sweep on a remote invoker.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new trigger client.
func NewClient(baseURL, apiKey string) *Client {
	normalizedURL := strings.TrimSuffix(baseURL, "/")
	return &Client{
		baseURL:    normalizedURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// TriggerReminderSweep asks the remote invoker to run the reminder
// sweep. Transient failures are retried with backoff; auth and other
// client errors are not.
func (c *Client) TriggerReminderSweep(ctx context.Context) error {
	if c.baseURL == "" {
		return fmt.Errorf("reminder trigger base URL is not configured")
	}

	url := fmt.Sprintf("%s/internal/sweeps/reminders", c.baseURL)

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer([]byte("{}")))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			if c.apiKey != "" {
				req.Header.Set("X-Internal-API-Key", c.apiKey)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to execute trigger request: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return retry.Unrecoverable(fmt.Errorf("reminder trigger returned status %d", resp.StatusCode))
			}
			if resp.StatusCode >= 500 {
				return fmt.Errorf("reminder trigger returned status %d", resp.StatusCode)
			}

			return nil
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.MaxDelay(15*time.Second),
		retry.Context(ctx),
	)
}
