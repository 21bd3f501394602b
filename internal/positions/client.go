package positions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/retry"
	jsoniter "github.com/json-iterator/go"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxResponseBytes = 1 << 20

// Client looks up open lending positions for an account from the indexer's
// query API. It implements models.PositionLookup.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *logger.Logger
}

func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// ListPositions fetches all positions held by the given account address.
// Transient failures are retried with backoff; 4xx responses are not.
func (c *Client) ListPositions(ctx context.Context, account string) ([]models.Position, error) {
	endpoint := fmt.Sprintf("%s/positions?account=%s", c.baseURL, url.QueryEscape(account))

	var positions []models.Position
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpc.Do(req)
			if err != nil {
				return fmt.Errorf("failed to query positions: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return retry.Unrecoverable(fmt.Errorf("positions api returned %d", resp.StatusCode))
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("positions api returned %d", resp.StatusCode)
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			if err := json.Unmarshal(body, &positions); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to decode response: %w", err))
			}
			return nil
		},
		retry.Attempts(4),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("Retrying position lookup ", "attempt ", n, " error ", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch positions for %s: %s", account, err)
	}
	return positions, nil
}
