// Package notehub is a client for the remote notes service.
package notehub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marcus/notehub/internal/note"
)

// DefaultPerPage is the page size used by the notes list.
const DefaultPerPage = 12

const defaultTimeout = 10 * time.Second

// Client talks to the notes service over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	logger  *slog.Logger
	newID   func() string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. A client passed with
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches one page of notes.
func (c *Client) List(ctx context.Context, p note.ListParams) (note.ListResult, error) {
	q := url.Values{}
	page := max(1, p.Page)
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("perPage", strconv.Itoa(perPage))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Tag != "" {
		q.Set("tag", p.Tag)
	}

	var res note.ListResult
	if err := c.do(ctx, http.MethodGet, "/notes", q, nil, &res); err != nil {
		return note.ListResult{}, fmt.Errorf("list notes: %w", err)
	}
	if res.Notes == nil {
		res.Notes = []note.Note{}
	}
	return res, nil
}

// Get fetches a single note.
func (c *Client) Get(ctx context.Context, id string) (note.Note, error) {
	var n note.Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), nil, nil, &n); err != nil {
		return note.Note{}, fmt.Errorf("get note %s: %w", id, err)
	}
	return n, nil
}

// Create validates in and creates a note. Invalid input is rejected
// without a request.
func (c *Client) Create(ctx context.Context, in note.CreateInput) (note.Note, error) {
	if err := in.Validate(); err != nil {
		return note.Note{}, err
	}
	var n note.Note
	if err := c.do(ctx, http.MethodPost, "/notes", nil, in, &n); err != nil {
		return note.Note{}, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// Update replaces the fields of an existing note.
func (c *Client) Update(ctx context.Context, id string, in note.CreateInput) (note.Note, error) {
	if err := in.Validate(); err != nil {
		return note.Note{}, err
	}
	var n note.Note
	if err := c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id), nil, in, &n); err != nil {
		return note.Note{}, fmt.Errorf("update note %s: %w", id, err)
	}
	return n, nil
}

// Delete removes a note and returns it as it was.
func (c *Client) Delete(ctx context.Context, id string) (note.Note, error) {
	var n note.Note
	if err := c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil, &n); err != nil {
		return note.Note{}, fmt.Errorf("delete note %s: %w", id, err)
	}
	return n, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	reqID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("notehub: request failed", "method", method, "url", u.String(), "request_id", reqID, "error", err)
		return err
	}
	defer resp.Body.Close()
	c.logger.Debug("notehub: request", "method", method, "url", u.String(), "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
