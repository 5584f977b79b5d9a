// Package todoist fetches active tasks from the Todoist REST API.
package todoist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"inkdo/hal"
	"inkdo/internal/source"
	"inkdo/internal/task"
)

const (
	DefaultBaseURL = "https://api.todoist.com"
	DefaultFilter  = "today & !subtask & (!shared | assigned to:me)"

	name    = "todoist"
	timeout = 30 * time.Second
	// Responses larger than this are rejected rather than decoded.
	maxBody = 4 << 20
)

// ErrTooLarge reports a response body over the size limit.
var ErrTooLarge = errors.New("response too large")

// Config selects the account and the tasks shown.
type Config struct {
	Token   string
	Filter  string
	BaseURL string
}

// Client is a source.Source backed by GET /rest/v2/tasks.
type Client struct {
	http    *http.Client
	baseURL string
	filter  string
	log     hal.Logger
}

var _ source.Source = (*Client)(nil)

// New builds a client that sends the API token as a bearer token.
func New(ctx context.Context, cfg Config, log hal.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	filter := cfg.Filter
	if filter == "" {
		filter = DefaultFilter
	}
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Token,
		TokenType:   "Bearer",
	}))
	hc.Timeout = timeout
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(base, "/"),
		filter:  filter,
		log:     log,
	}
}

func (c *Client) Name() string { return name }

func (c *Client) Tasks(ctx context.Context) ([]task.Task, error) {
	u := c.baseURL + "/rest/v2/tasks?" + url.Values{"filter": {c.filter}}.Encode()
	hal.Logf(c.log, "info: todoist: GET /rest/v2/tasks")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &source.UnavailableError{Source: name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, &source.UnavailableError{Source: name, Status: resp.StatusCode, Err: err}
	}
	if len(body) > maxBody {
		hal.Logf(c.log, "error: todoist: response over %d bytes", maxBody)
		return nil, &source.UnavailableError{Source: name, Status: resp.StatusCode, Err: ErrTooLarge}
	}
	if resp.StatusCode != http.StatusOK {
		hal.Logf(c.log, "error: todoist: unexpected status HTTP %d", resp.StatusCode)
		return nil, &source.UnavailableError{
			Source: name,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(firstLine(body))),
		}
	}

	var tasks []task.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, &source.UnavailableError{Source: name, Status: resp.StatusCode, Err: fmt.Errorf("decode tasks: %w", err)}
	}
	hal.Logf(c.log, "info: todoist: got HTTP %d with %d tasks", resp.StatusCode, len(tasks))
	return tasks, nil
}

func firstLine(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120]
	}
	if s == "" {
		return "empty response"
	}
	return s
}
