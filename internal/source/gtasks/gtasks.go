// Package gtasks reads a Google Tasks list as a task source.
//
// Google Tasks has no priority, duration or time of day, so every task gets
// the lowest priority and a date-only due.
package gtasks

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gtasks "google.golang.org/api/tasks/v1"

	"inkdo/hal"
	"inkdo/internal/source"
	"inkdo/internal/task"
)

const (
	name = "gtasks"

	DefaultList = "@default"
)

// Config locates the OAuth client secrets, the stored user token and the list.
type Config struct {
	CredentialsFile string
	TokenFile       string
	List            string
}

// Client is a source.Source over one task list.
type Client struct {
	svc  *gtasks.Service
	list string
	log  hal.Logger
}

var _ source.Source = (*Client)(nil)

func oauthConfig(cfg Config) (*oauth2.Config, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	oc, err := google.ConfigFromJSON(b, gtasks.TasksReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	return oc, nil
}

// New builds a client from the client secrets and a token saved by Authorize.
// The token is refreshed as needed.
func New(ctx context.Context, cfg Config, log hal.Logger) (*Client, error) {
	oc, err := oauthConfig(cfg)
	if err != nil {
		return nil, err
	}
	tok, err := loadToken(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("load token (run `inkdo auth`): %w", err)
	}
	svc, err := gtasks.NewService(ctx, option.WithHTTPClient(oc.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("tasks service: %w", err)
	}
	return NewWithService(svc, cfg.List, log), nil
}

// NewWithService wraps an existing service.
func NewWithService(svc *gtasks.Service, list string, log hal.Logger) *Client {
	if list == "" {
		list = DefaultList
	}
	return &Client{svc: svc, list: list, log: log}
}

func (c *Client) Name() string { return name }

func (c *Client) Tasks(ctx context.Context) ([]task.Task, error) {
	hal.Logf(c.log, "info: gtasks: listing %s", c.list)
	var items []*gtasks.Task
	err := c.svc.Tasks.List(c.list).
		ShowCompleted(false).
		ShowHidden(false).
		MaxResults(100).
		Pages(ctx, func(page *gtasks.Tasks) error {
			items = append(items, page.Items...)
			return nil
		})
	if err != nil {
		ue := &source.UnavailableError{Source: name, Err: err}
		var ge *googleapi.Error
		if errors.As(err, &ge) {
			ue.Status = ge.Code
		}
		return nil, ue
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Parent != items[j].Parent {
			return items[i].Parent < items[j].Parent
		}
		return items[i].Position < items[j].Position
	})
	out := make([]task.Task, 0, len(items))
	for i, it := range items {
		if it.Deleted {
			continue
		}
		out = append(out, convert(it, i))
	}
	return out, nil
}

func convert(it *gtasks.Task, order int) task.Task {
	t := task.Task{
		ID:          it.Id,
		Priority:    task.PriorityLowest,
		Order:       order,
		Content:     it.Title,
		Description: it.Notes,
		Completed:   it.Status == "completed",
	}
	// Due is an RFC 3339 timestamp whose time part is always midnight UTC.
	if len(it.Due) >= len("2006-01-02") {
		t.Due = &task.Due{Date: it.Due[:len("2006-01-02")]}
	}
	return t
}

// Authorize runs the installed-app OAuth flow on the console: it prints the
// consent URL to out, reads the code from in and stores the token.
func Authorize(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	oc, err := oauthConfig(cfg)
	if err != nil {
		return err
	}
	url := oc.AuthCodeURL("inkdo", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(out, "Open this URL in a browser and paste the authorization code:\n%s\n> ", url)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("no authorization code")
	}
	tok, err := oc.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	if err := saveToken(cfg.TokenFile, tok); err != nil {
		return err
	}
	fmt.Fprintf(out, "token saved to %s\n", cfg.TokenFile)
	return nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		f.Close()
		return fmt.Errorf("save token: %w", err)
	}
	return f.Close()
}
