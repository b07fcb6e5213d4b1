// Package remote talks to the remote quote collection over HTTP.
//
// The remote schema is not fixed: a Schema made of gjson/sjson paths maps the
// remote's field names to text and category in both directions.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/quotebook/pkg/core"
)

// maxPayload bounds the size of a GET response body.
const maxPayload = 10 << 20

// Config configures a Client.
type Config struct {
	URL        string
	PushURL    string // defaults to URL
	Schema     Schema
	Timeout    time.Duration // zero keeps the transport default
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches and pushes records against one remote endpoint.
type Client struct {
	url     string
	pushURL string
	schema  Schema
	http    *http.Client
	logger  *slog.Logger
}

// NewClient validates the configuration and creates a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("remote URL is required")
	}
	if err := checkURL(cfg.URL); err != nil {
		return nil, err
	}
	if cfg.PushURL == "" {
		cfg.PushURL = cfg.URL
	} else if err := checkURL(cfg.PushURL); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		url:     cfg.URL,
		pushURL: cfg.PushURL,
		schema:  cfg.Schema,
		http:    httpClient,
		logger:  logger,
	}, nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid remote URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid remote URL %q: scheme must be http or https", raw)
	}
	return nil
}

// URL returns the fetch endpoint.
func (c *Client) URL() string {
	return c.url
}

// Fetch issues a GET and translates the payload into candidate records.
// Transport failures and non-2xx statuses return core.ErrNetwork; an
// untranslatable payload returns core.ErrFormat.
func (c *Client) Fetch(ctx context.Context) ([]core.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", core.ErrNetwork, c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: GET %s: unexpected status %s", core.ErrNetwork, c.url, resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: reading body: %v", core.ErrNetwork, c.url, err)
	}

	candidates, err := c.schema.Fetch.Translate(payload)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("remote fetched", "url", c.url, "candidates", len(candidates))
	return candidates, nil
}

// Push POSTs records in the remote's native shape. Nothing is read back
// from the response beyond its status.
func (c *Client) Push(ctx context.Context, records []core.Record) error {
	if len(records) == 0 {
		return nil
	}

	if c.schema.Push.Batch {
		body, err := c.schema.Push.RenderBatch(records)
		if err != nil {
			return err
		}
		return c.post(ctx, body)
	}

	var errs []error
	for _, r := range records {
		body, err := c.schema.Push.Render(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := c.post(ctx, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %v", core.ErrNetwork, c.pushURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: POST %s: unexpected status %s", core.ErrNetwork, c.pushURL, resp.Status)
	}
	return nil
}
