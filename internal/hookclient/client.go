// Package hookclient manages webhook predicate registrations against a
// chainhook node, so the tracker receives deliveries for the contract
// events it cares about.
package hookclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pulseboardhq/pulseboard-backend/internal/clock"
	"github.com/pulseboardhq/pulseboard-backend/pkg/workerpool"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	defaultWorkers    = 4
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
	defaultRPS        = 10
)

// Predicate describes one registration: deliver matching contract events
// to the given endpoint.
type Predicate struct {
	Name       string
	Contract   string
	Network    string
	StartBlock uint64
	DeliverTo  string
	AuthHeader string
}

// Hook is a registration as reported by the node.
type Hook struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Config tunes the client. Zero values fall back to defaults.
type Config struct {
	BaseURL           string
	APIKey            string
	Workers           int
	Attempts          int
	RetryDelay        time.Duration
	RequestsPerSecond int
}

// Client talks to the chainhook node's registration API.
type Client struct {
	cfg     Config
	httpc   *http.Client
	limiter ratelimit.Limiter
	logger  *zap.Logger
}

// NewClient returns a Client instance.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRPS
	}
	return &Client{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		limiter: ratelimit.New(cfg.RequestsPerSecond),
		logger:  logger.Named("hookclient"),
	}, nil
}

// Register creates every predicate, a few at a time, retrying transient
// failures. The first permanent failure aborts the rest.
func (c *Client) Register(ctx context.Context, predicates []Predicate) error {
	return workerpool.Process(ctx, c.cfg.Workers, predicates, func(ctx context.Context, p Predicate) error {
		err := clock.Retry(ctx, c.cfg.Attempts, c.cfg.RetryDelay, func(ctx context.Context) error {
			return c.register(ctx, p)
		})
		if err != nil {
			return fmt.Errorf("register predicate %q: %w", p.Name, err)
		}
		c.logger.Info("predicate registered",
			zap.String("name", p.Name),
			zap.String("contract", p.Contract))
		return nil
	})
}

func (c *Client) register(ctx context.Context, p Predicate) error {
	network := p.Network
	if network == "" {
		network = "mainnet"
	}
	body := map[string]any{
		"chain":   "stacks",
		"name":    p.Name,
		"version": 1,
		"networks": map[string]any{
			network: map[string]any{
				"if_this": map[string]any{
					"scope":               "print_event",
					"contract_identifier": p.Contract,
					"contains":            "",
				},
				"then_that": map[string]any{
					"http_post": map[string]any{
						"url":                  p.DeliverTo,
						"authorization_header": p.AuthHeader,
					},
				},
				"start_block": p.StartBlock,
			},
		},
	}
	raw, err := sonnet.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode predicate: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/chainhooks", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectSuccess(resp)
}

// List returns the registrations the node currently holds.
func (c *Client) List(ctx context.Context) ([]Hook, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/chainhooks", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := expectSuccess(resp); err != nil {
		return nil, err
	}

	var hooks []Hook
	if err := sonnet.NewDecoder(resp.Body).Decode(&hooks); err != nil {
		return nil, fmt.Errorf("decode hook list: %w", err)
	}
	return hooks, nil
}

// Delete removes one registration by uuid.
func (c *Client) Delete(ctx context.Context, uuid string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/v1/chainhooks/stacks/"+uuid, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectSuccess(resp)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	c.limiter.Take()

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func expectSuccess(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
}
