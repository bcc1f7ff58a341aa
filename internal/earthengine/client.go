package earthengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// Scope is the OAuth scope required by the Earth Engine API.
	Scope          = "https://www.googleapis.com/auth/earthengine"
	DefaultBaseURL = "https://earthengine.googleapis.com"
)

// Config describes how to reach and authenticate against Earth Engine.
type Config struct {
	Project         string
	BaseURL         string
	CredentialsFile string // service-account JSON; application default credentials when empty
	Timeout         time.Duration
}

// Client evaluates expression graphs through the value:compute endpoint.
type Client struct {
	project string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient skips OAuth setup and sends requests through hc as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpCfg.Client = hc
	}
}

func WithBackoff(b BackoffConfig) Option {
	return func(c *Client) {
		c.httpCfg.Backoff = b
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New initializes a client. Unless WithHTTPClient is given it resolves
// credentials and fetches a first token, so authentication problems surface here.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if cfg.Project == "" {
		return nil, errors.New("earth engine project is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		project: cfg.Project,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{Backoff: defaultBackoff()},
		circuit: newCircuitBreaker("earthengine"),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpCfg.Client == nil {
		hc, err := authenticatedClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.httpCfg.Client = hc
	}

	c.logger.Info("earth engine client initialized",
		zap.String("project", c.project),
		zap.String("base_url", c.baseURL),
	)
	return c, nil
}

func authenticatedClient(ctx context.Context, cfg Config) (*http.Client, error) {
	base := &http.Client{Timeout: cfg.Timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	var (
		creds *google.Credentials
		err   error
	)
	if cfg.CredentialsFile != "" {
		data, readErr := os.ReadFile(cfg.CredentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", readErr)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, Scope)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, Scope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve google credentials: %w", err)
	}

	if _, err := creds.TokenSource.Token(); err != nil {
		return nil, fmt.Errorf("failed to obtain earth engine token: %w", err)
	}

	hc := oauth2.NewClient(ctx, creds.TokenSource)
	hc.Timeout = cfg.Timeout
	return hc, nil
}

// Compute evaluates expr and returns the decoded result. A nil client
// returns ErrNotInitialized.
func (c *Client) Compute(ctx context.Context, expr Expression) (any, error) {
	if c == nil {
		return nil, ErrNotInitialized
	}

	body, err := json.Marshal(struct {
		Expression Expression `json:"expression"`
	}{Expression: expr})
	if err != nil {
		return nil, fmt.Errorf("failed to encode expression: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/projects/%s/value:compute", c.baseURL, c.project)

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	start := time.Now()
	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		c.logger.Debug("value:compute failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode compute response: %w", err)
	}
	if len(payload.Result) == 0 || bytes.Equal(payload.Result, []byte("null")) {
		return nil, fmt.Errorf("%w: compute response has no result", ErrEmptyResult)
	}

	var result any
	if err := json.Unmarshal(payload.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode compute result: %w", err)
	}

	c.logger.Debug("value:compute succeeded", zap.Duration("elapsed", time.Since(start)))
	return result, nil
}
