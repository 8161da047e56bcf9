package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

// APIError is a non-2xx answer of the admin API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("admin api %d: %s", e.StatusCode, e.Message)
}

// Client talks to the admin HTTP API with a bearer session token.
type Client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
	// stream has no timeout; change streams stay open.
	stream *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(log *logger.Logger, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		log:        log.With("client", "AdminClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		stream:     &http.Client{},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type LoginResult struct {
	Success   bool      `json:"success"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login opens a session and keeps its token for later calls.
func (c *Client) Login(ctx context.Context, email, password string, remember bool) (*LoginResult, error) {
	body := map[string]any{"email": email, "password": password, "remember": remember}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Fetch lists every record of a resource.
func Fetch[T any](ctx context.Context, c *Client, cols Columns[T]) ([]*T, error) {
	var out []*T
	if err := c.do(ctx, http.MethodGet, "/api/"+cols.Resource, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List is Fetch for views: a failed fetch is logged and shows as an empty table.
func List[T any](ctx context.Context, c *Client, cols Columns[T]) []*T {
	out, err := Fetch(ctx, c, cols)
	if err != nil {
		c.log.Warn("List fetch failed", "resource", cols.Resource, "error", err)
		return []*T{}
	}
	return out
}

// Save creates draft when id is zero and updates record id otherwise.
func Save[T any](ctx context.Context, c *Client, cols Columns[T], id uint, draft *T) (*T, error) {
	method, path := http.MethodPost, "/api/"+cols.Resource
	if id != 0 {
		method, path = http.MethodPut, path+"/"+strconv.FormatUint(uint64(id), 10)
	}
	out := new(T)
	if err := c.do(ctx, method, path, draft, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, resource string, id uint) error {
	return c.do(ctx, http.MethodDelete, "/api/"+resource+"/"+strconv.FormatUint(uint64(id), 10), nil, nil)
}

// Stream subscribes to the change streams of channels.
func (c *Client) Stream(ctx context.Context, channels ...string) (*Subscription, error) {
	q := url.Values{}
	for _, ch := range channels {
		q.Add("channel", ch)
	}
	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/realtime/stream?"+q.Encode(), nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	c.authorize(req)
	resp, err := c.stream.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		cancel()
		return nil, apiError(resp.StatusCode, raw)
	}
	return newSubscription(c.log, resp.Body, cancel), nil
}

// Sync keeps feed current until ctx ends: it loads the table, then applies
// every change, reloading whenever a change cannot be merged.
func Sync[T any](ctx context.Context, c *Client, feed *Feed[T]) error {
	cols := feed.Table().Columns()
	sub, err := c.Stream(ctx, cols.Channel)
	if err != nil {
		return err
	}
	defer sub.Close()
	feed.Table().Load(List(ctx, c, cols))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ch, ok := <-sub.Changes():
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return sub.Err()
			}
			if err := feed.Apply(ch); err != nil {
				if !errors.Is(err, ErrStale) {
					c.log.Warn("Change skipped", "resource", cols.Resource, "error", err)
				}
				feed.Table().Load(List(ctx, c, cols))
			}
		}
	}
}

func (c *Client) authorize(req *http.Request) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func apiError(status int, raw []byte) *APIError {
	var env struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &env) == nil && env.Error != "" {
		msg = env.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
