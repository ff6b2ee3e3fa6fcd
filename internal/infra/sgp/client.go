// Package sgp provides a client for the SGP provisioning/billing upstream.
// The upstream is the system of record for customers, contracts, titles and
// support tickets; this client wraps its URA and Central endpoints with
// retry, circuit breaking and tracing, and hands every payload to the
// normalize package so only canonical types leave this package.
package sgp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/onfly/isp-portal-bff-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("sgp")

// Client wraps HTTP calls to the SGP API. Every request carries the
// provider token; some endpoints only accept form-encoded bodies, a quirk
// of the upstream that callers never see.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewClient creates an SGP client.
func NewClient(httpClient *http.Client, baseURL, token string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		cb:         cb,
		cfg:        cfg,
		logger:     logger,
	}
}

// doForm posts form-encoded fields to an SGP endpoint. The URA billing and
// Central endpoints reject JSON bodies.
func (c *Client) doForm(ctx context.Context, endpoint string, fields map[string]string) ([]byte, error) {
	form := url.Values{}
	form.Set("token", c.token)
	for k, v := range fields {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(endpoint), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.execute(req, endpoint)
}

// doJSON posts a JSON body to an SGP endpoint.
func (c *Client) doJSON(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(endpoint), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.execute(req, endpoint)
}

func (c *Client) endpointURL(endpoint string) string {
	return fmt.Sprintf("%s/%s/", c.baseURL, strings.Trim(endpoint, "/"))
}

func (c *Client) execute(req *http.Request, endpoint string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("sgp: request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("sgp: failed to read response body",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil // no data
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("sgp: non-2xx response",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("sgp %s returned status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	c.logger.Debug("sgp: request OK",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
	)

	return body, nil
}

// withResilience runs fn through the circuit breaker and retry policy.
func (c *Client) withResilience(ctx context.Context, fn func() error) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, fn)
	})
	return err
}
