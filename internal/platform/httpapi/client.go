// Package httpapi is the shared JSON client for the study-planning backend.
// Every call is context-bound, logged at debug level and, when a registry is
// supplied, counted and timed per route template.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const apiPrefix = "/api"

type Client struct {
	base    string
	http    *http.Client
	log     *zap.SugaredLogger
	metrics *Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = log }
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) { c.metrics = NewMetrics(reg) }
}

// New builds a client for the deployment address baseURL; the /api prefix is
// appended here so configuration carries the bare host.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}
	c := &Client{
		base: parsed.String() + apiPrefix,
		http: &http.Client{Timeout: timeout},
		log:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Get(ctx context.Context, route string, out any, params ...string) error {
	return c.do(ctx, http.MethodGet, route, params, nil, out)
}

func (c *Client) Post(ctx context.Context, route string, body, out any, params ...string) error {
	return c.do(ctx, http.MethodPost, route, params, body, out)
}

func (c *Client) Put(ctx context.Context, route string, body, out any, params ...string) error {
	return c.do(ctx, http.MethodPut, route, params, body, out)
}

func (c *Client) do(ctx context.Context, method, route string, params []string, body, out any) error {
	path, err := expand(route, params)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, route, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, route, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(started)
	if err != nil {
		c.metrics.observe(method, route, "error", latency)
		c.log.Debugw("backend request failed", "method", method, "path", path, "latency", latency.String(), "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.metrics.observe(method, route, strconv.Itoa(resp.StatusCode), latency)
	c.log.Debugw("backend request", "method", method, "path", path, "status", resp.StatusCode, "latency", latency.String())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(method, path, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// expand substitutes {placeholders} in route, in order, with path-escaped
// params.
func expand(route string, params []string) (string, error) {
	var sb strings.Builder
	rest := route
	for _, p := range params {
		open := strings.Index(rest, "{")
		closing := strings.Index(rest, "}")
		if open < 0 || closing < open {
			return "", fmt.Errorf("route %s: too many params", route)
		}
		sb.WriteString(rest[:open])
		sb.WriteString(url.PathEscape(p))
		rest = rest[closing+1:]
	}
	if strings.Contains(rest, "{") {
		return "", fmt.Errorf("route %s: missing params", route)
	}
	sb.WriteString(rest)
	return sb.String(), nil
}
