package agentclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
	"github.com/orca-network/orca/pkg/logger"
)

const DefaultTimeout = 30 * time.Second

type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Client posts prepare payloads to agent services. It never retries: a
// retried prepare could reach the agent twice.
type Client struct {
	http *resty.Client
}

var _ execution.Dispatcher = (*Client)(nil)

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Client{http: client}
}

func (c *Client) Prepare(
	ctx context.Context,
	prepareURL string,
	payload *execution.PreparePayload,
) (*execution.PrepareResponse, error) {
	log := logger.FromContext(ctx)
	started := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(prepareURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrRemoteUnreachable, prepareURL, err)
	}
	log.Debug("Agent prepare call finished",
		"url", prepareURL,
		"status_code", resp.StatusCode(),
		"duration", time.Since(started),
	)
	if !resp.IsSuccess() {
		return nil, &core.RemoteRejectedError{
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
		}
	}
	return &execution.PrepareResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
