// Package apiclient is a typed client for the Zenith POS HTTP API. It lets a
// register host the cart engine locally while sessions and transactions go
// to the server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/pos"
	"zenith-pos/internal/report"
)

const tokenHeader = "X-Auth-Token"

var (
	_ pos.Authenticator = (*Client)(nil)
	_ pos.Recorder      = (*Client)(nil)
)

// ErrRateLimited is returned when the server answers 429.
var ErrRateLimited = errors.New("rate limited")

// Error is a non-2xx API response. It unwraps to the domain sentinel matching
// its status code.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusUnauthorized:
		return domain.ErrInvalidCredentials
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return domain.ErrPersistence
	}
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Client talks to one API server. It keeps the token from the last
// successful Login and sends it with every later request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken starts the client with an existing operator token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the operator token, empty before a successful Login.
func (c *Client) Token() string {
	return c.token
}

// Login authenticates an operator and keeps the issued token.
func (c *Client) Login(ctx context.Context, name, password string) (domain.User, error) {
	var user domain.User
	resp, err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"name":     name,
		"password": password,
	}, &user)
	if err != nil {
		return domain.User{}, err
	}
	c.token = resp.Header.Get(tokenHeader)
	return user, nil
}

// Logout forgets the operator token.
func (c *Client) Logout() {
	c.token = ""
}

// Products returns the catalog.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if _, err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// RecordTransaction submits a completed sale and returns its id.
func (c *Client) RecordTransaction(ctx context.Context, tx domain.Transaction) (string, error) {
	body := struct {
		Items       []domain.CartItem `json:"items"`
		Total       float64           `json:"total"`
		Timestamp   int64             `json:"timestamp"`
		CashierID   string            `json:"cashierId,omitempty"`
		CashierName string            `json:"cashierName,omitempty"`
	}{tx.Items, tx.Total, tx.Timestamp, tx.CashierID, tx.CashierName}

	var out struct {
		ID string `json:"id"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/transactions", body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Transactions returns the sales history.
func (c *Client) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if _, err := c.do(ctx, http.MethodGet, "/api/transactions", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// Report returns the aggregate sales report.
func (c *Client) Report(ctx context.Context) (report.Summary, error) {
	var summary report.Summary
	if _, err := c.do(ctx, http.MethodGet, "/api/transactions/report", nil, &summary); err != nil {
		return report.Summary{}, err
	}
	return summary, nil
}

// Export copies the CSV history to w.
func (c *Client) Export(ctx context.Context, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, "/api/transactions/export", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// do sends a JSON request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	var env envelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := http.StatusText(resp.StatusCode)
	if json.Unmarshal(raw, &env) == nil && env.Error != "" {
		msg = env.Error
	}
	return &Error{StatusCode: resp.StatusCode, Message: msg}
}
