// Package api is the HTTP client for the gofinances API.
//
// Paths are resolved against the configured base URL, so a base of
// "https://host/v1" sends categories to "https://host/v1/categories".
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gofinances/internal/core"
	applog "gofinances/internal/log"
)

const maxBodyBytes = 1 << 20

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	logger     *applog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

func WithLogger(l *applog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.WithComponent(applog.ComponentAPI)
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL scheme %q: must be http or https", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     applog.Default().WithComponent(applog.ComponentAPI),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListCategories calls GET categories.
func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint("categories"), nil)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var categories []core.Category
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

// ListTransactions calls GET transactions.
func (c *Client) ListTransactions(ctx context.Context) (TransactionList, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint("transactions"), nil)
	if err != nil {
		return TransactionList{}, fmt.Errorf("list transactions: %w", err)
	}
	var list TransactionList
	if err := json.Unmarshal(body, &list); err != nil {
		return TransactionList{}, fmt.Errorf("decode transactions: %w", err)
	}
	return list, nil
}

type createTransactionRequest struct {
	Title    string      `json:"title"`
	Value    json.Number `json:"value"`
	Category string      `json:"category"`
	Type     string      `json:"type"`
}

// CreateTransaction calls POST transactions. Any 2xx is success; a body is
// decoded when present, otherwise the result is built from n.
func (c *Client) CreateTransaction(ctx context.Context, n core.NewTransaction) (core.Transaction, error) {
	req := createTransactionRequest{
		Title:    n.Title,
		Value:    json.Number(n.Value.String()),
		Category: n.Category,
		Type:     string(n.Type),
	}
	body, err := c.do(ctx, http.MethodPost, c.endpoint("transactions"), req)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	created := core.Transaction{
		Title:    n.Title,
		Value:    n.Value,
		Type:     n.Type,
		Category: core.Category{Title: n.Category},
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
		var decoded core.Transaction
		if err := json.Unmarshal(trimmed, &decoded); err != nil {
			c.logger.WarnContext(ctx, "Ignoring undecodable create response", "error", err)
		} else if decoded.ID != "" {
			created = decoded
		}
	}
	return created, nil
}

// DeleteTransaction calls DELETE /transactions/{id}.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("delete transaction: empty id")
	}
	if _, err := c.do(ctx, http.MethodDelete, c.endpoint("transactions", url.PathEscape(id)), nil); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

func (c *Client) endpoint(elem ...string) string {
	return c.baseURL.JoinPath(elem...).String()
}

func (c *Client) do(ctx context.Context, method, endpoint string, in any) ([]byte, error) {
	var reader io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "API request failed",
			applog.FieldMethod, method,
			applog.FieldPath, req.URL.Path,
			applog.FieldError, err)
		return nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.DebugContext(ctx, "API request completed",
		applog.FieldMethod, method,
		applog.FieldPath, req.URL.Path,
		applog.FieldStatusCode, resp.StatusCode,
		applog.FieldDuration, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, body)
	}
	return body, nil
}
