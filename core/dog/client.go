package dog

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dog-inventory/core/reconcile"
)

// DefaultTimeout is used when the configured timeout is not positive.
const DefaultTimeout = 300 * time.Second

// maxErrorBody bounds how much of an error response is kept in messages.
const maxErrorBody = 512

// Client reads hosts, groups and facts from dog_trainer.
// It implements reconcile.Source and is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client from configuration.
func NewClient(cfg Config) *Client {
	timeout := time.Duration(cfg.RequestTimeout * float64(time.Second))
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// FetchHosts implements reconcile.Source.
func (c *Client) FetchHosts(ctx context.Context, activeOnly bool) ([]map[string]any, error) {
	var hosts []map[string]any
	if err := c.get(ctx, "/hosts", nil, &hosts); err != nil {
		return nil, &reconcile.SourceUnavailableError{Op: "hosts", Err: err}
	}
	if activeOnly {
		hosts = reconcile.FilterActive(hosts)
	}
	return hosts, nil
}

// FetchGroups implements reconcile.Source.
func (c *Client) FetchGroups(ctx context.Context) ([]map[string]any, error) {
	var groups []map[string]any
	if err := c.get(ctx, "/groups", nil, &groups); err != nil {
		return nil, &reconcile.SourceUnavailableError{Op: "groups", Err: err}
	}
	return groups, nil
}

// FetchFact implements reconcile.Source.
func (c *Client) FetchFact(ctx context.Context, name string) (*reconcile.FactDocument, error) {
	var doc reconcile.FactDocument
	err := c.get(ctx, "/fact", url.Values{"name": {name}}, &doc)
	if errors.Is(err, errNotFound) {
		return nil, fmt.Errorf("fact %q: %w", name, reconcile.ErrFactNotFound)
	}
	if err != nil {
		return nil, &reconcile.SourceUnavailableError{Op: "fact", Err: err}
	}
	if doc.Name == "" {
		doc.Name = name
	}
	return &doc, nil
}

var errNotFound = errors.New("not found")

// get performs an authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", path, errNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: failed to decode response: %w", path, err)
	}
	return nil
}
