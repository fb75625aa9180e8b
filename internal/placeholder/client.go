// Package placeholder talks to the placeholder JSON REST service that feeds the catalog
// and accepts the book manager's writes.
package placeholder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	"github.com/bibliotecaonline/biblioteca-server/internal/ratelimit"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRPS     = 5.0
	defaultBurst   = 5

	// Single upstream host, single limiter key.
	limiterKey = "posts"

	// Author id sent with every write.
	DefaultUserID = 1
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client is a rate-limited client for the /posts resource.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a client. Zero options fall back to defaults.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		limiter: ratelimit.New(opts.RequestsPerSecond, opts.Burst),
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// PostInput is the body of a create or update call.
type PostInput struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int64  `json:"userId"`
}

// FetchItems returns every post, in service order.
func (c *Client) FetchItems(ctx context.Context) ([]catalog.RawItem, error) {
	body, err := c.do(ctx, http.MethodGet, "/posts", nil)
	if err != nil {
		return nil, wrapError("list", 0, err)
	}

	var items []catalog.RawItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, wrapError("list", 0, fmt.Errorf("decode posts: %w", err))
	}
	return items, nil
}

// CreatePost creates a post. The service echoes the post with an assigned id.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (catalog.RawItem, error) {
	return c.write(ctx, "create", http.MethodPost, "/posts", 0, in)
}

// UpdatePost replaces post id.
func (c *Client) UpdatePost(ctx context.Context, id int64, in PostInput) (catalog.RawItem, error) {
	return c.write(ctx, "update", http.MethodPut, postPath(id), id, in)
}

// DeletePost deletes post id.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, postPath(id), nil); err != nil {
		return wrapError("delete", id, err)
	}
	return nil
}

func (c *Client) write(ctx context.Context, op, method, path string, id int64, in PostInput) (catalog.RawItem, error) {
	if in.UserID == 0 {
		in.UserID = DefaultUserID
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return catalog.RawItem{}, wrapError(op, id, fmt.Errorf("encode post: %w", err))
	}

	body, err := c.do(ctx, method, path, payload)
	if err != nil {
		return catalog.RawItem{}, wrapError(op, id, err)
	}

	var item catalog.RawItem
	if err := json.Unmarshal(body, &item); err != nil {
		return catalog.RawItem{}, wrapError(op, id, fmt.Errorf("decode post: %w", err))
	}
	return item, nil
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

// do executes one request after waiting for the limiter.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Biblioteca/1.0")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	c.logger.Debug("placeholder request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusBadRequest:
		return nil, ErrBadRequest
	case resp.StatusCode >= 500:
		return nil, ErrServer
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
