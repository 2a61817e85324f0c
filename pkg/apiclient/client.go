// Package apiclient is a thin authenticated client for the expense
// tracker REST API. Callers get either the unwrapped data payload or an
// *APIError carrying the server's message, never a half-parsed response.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
	"github.com/yogasw/expense-tracker-api/internal/domain/repository"
)

// APIError is returned whenever the HTTP status signals failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client calls the REST API with a bearer token. A zero Token still
// sends the request; the server answers 401.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Message: "an error occurred"}
		}
		return err
	}
	if resp.StatusCode >= 400 {
		msg := env.Message
		if msg == "" {
			msg = "an error occurred"
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// Session is the payload returned by register and login.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/auth/register",
		map[string]string{"name": name, "email": email, "password": password}, &s)
	if err != nil {
		return nil, err
	}
	c.Token = s.Token
	return &s, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &s)
	if err != nil {
		return nil, err
	}
	c.Token = s.Token
	return &s, nil
}

// ExpenseDraft carries the mutable fields for create and update. Date is
// optional ("" lets the server default it to now) and accepts RFC3339 or
// YYYY-MM-DD.
type ExpenseDraft struct {
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date,omitempty"`
	Description string  `json:"description,omitempty"`
}

func (c *Client) ListExpenses(ctx context.Context) ([]entity.Expense, error) {
	var out []entity.Expense
	if err := c.do(ctx, http.MethodGet, "/api/expenses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetExpense(ctx context.Context, id string) (*entity.Expense, error) {
	var out entity.Expense
	if err := c.do(ctx, http.MethodGet, "/api/expenses/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateExpense(ctx context.Context, d ExpenseDraft) (*entity.Expense, error) {
	var out entity.Expense
	if err := c.do(ctx, http.MethodPost, "/api/expenses", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateExpense(ctx context.Context, id string, d ExpenseDraft) (*entity.Expense, error) {
	var out entity.Expense
	if err := c.do(ctx, http.MethodPut, "/api/expenses/"+url.PathEscape(id), d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/expenses/"+url.PathEscape(id), nil, nil)
}

// StatsFilter mirrors the stats/summary query parameters; zero values are
// omitted from the request.
type StatsFilter struct {
	Period   string
	Month    string
	Category string
}

func (c *Client) Stats(ctx context.Context, f StatsFilter) (*repository.Summary, error) {
	q := url.Values{}
	if f.Period != "" {
		q.Set("period", f.Period)
	}
	if f.Month != "" {
		q.Set("month", f.Month)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	path := "/api/expenses/stats/summary"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var out repository.Summary
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchExpenses queries the free-text search endpoint.
func (c *Client) SearchExpenses(ctx context.Context, query string) ([]map[string]any, error) {
	var out []map[string]any
	path := "/api/expenses/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
