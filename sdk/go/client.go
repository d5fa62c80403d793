package collabkhatasdk

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
)

// Client is a minimal Collab Khata HTTP API client.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Brand represents the API brand model.
type Brand struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// Collaboration represents the API collaboration model (partial).
type Collaboration struct {
	ID           string `json:"id"`
	BrandID      string `json:"brand_id"`
	Title        string `json:"title"`
	Platform     string `json:"platform"`
	AgreedAmount string `json:"agreed_amount,omitempty"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	PostingDate  string `json:"posting_date,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// PaymentView is an expectation with derived state.
type PaymentView struct {
	Expectation struct {
		ID              string `json:"id"`
		CollaborationID string `json:"collaboration_id"`
		ExpectedAmount  string `json:"expected_amount"`
		PromisedDate    string `json:"promised_date,omitempty"`
	} `json:"expectation"`
	Status        string `json:"status"`
	CreditedTotal string `json:"credited_total"`
	Balance       string `json:"balance"`
}

// OverduePayment is one row of the overdue listing.
type OverduePayment struct {
	ExpectationID      string `json:"expectation_id"`
	CollaborationID    string `json:"collaboration_id"`
	CollaborationTitle string `json:"collaboration_title"`
	BrandName          string `json:"brand_name"`
	Balance            string `json:"balance"`
	PromisedDate       string `json:"promised_date"`
	DaysOverdue        int    `json:"days_overdue"`
}

// Summary is the dashboard rollup.
type Summary struct {
	TotalExpected string         `json:"total_expected"`
	TotalCredited string         `json:"total_credited"`
	TotalPending  string         `json:"total_pending"`
	OverdueCount  int            `json:"overdue_count"`
	OverdueAmount string         `json:"overdue_amount"`
	StatusCounts  map[string]int `json:"status_counts"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Login exchanges credentials for a bearer token and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "api/auth/login", map[string]any{"email": email, "password": password}, &resp)
	if err != nil {
		return err
	}
	c.BearerToken = resp.Token
	return nil
}

// CreateBrand creates a brand.
func (c *Client) CreateBrand(ctx context.Context, name string) (Brand, error) {
	var resp Brand
	err := c.do(ctx, http.MethodPost, "api/brands", map[string]any{"name": name}, &resp)
	return resp, err
}

// CreateCollaboration creates a collaboration in Lead status.
func (c *Client) CreateCollaboration(ctx context.Context, brandID, title, platform string) (Collaboration, error) {
	body := map[string]any{
		"brand_id": brandID,
		"title":    title,
		"platform": platform,
	}
	var resp Collaboration
	err := c.do(ctx, http.MethodPost, "api/collaborations", body, &resp)
	return resp, err
}

// ChangeStatus transitions a collaboration. postingDate may be empty.
func (c *Client) ChangeStatus(ctx context.Context, collabID, status, postingDate string) (Collaboration, error) {
	body := map[string]any{"status": status}
	if postingDate != "" {
		body["posting_date"] = postingDate
	}
	var resp Collaboration
	endpoint := fmt.Sprintf("api/collaborations/%s/status", url.PathEscape(collabID))
	err := c.do(ctx, http.MethodPatch, endpoint, body, &resp)
	return resp, err
}

// CreatePaymentExpectation records expected money for a collaboration.
func (c *Client) CreatePaymentExpectation(ctx context.Context, collabID, amount, promisedDate string) (PaymentView, error) {
	body := map[string]any{"expected_amount": amount}
	if promisedDate != "" {
		body["promised_date"] = promisedDate
	}
	var resp PaymentView
	endpoint := fmt.Sprintf("api/collaborations/%s/payments", url.PathEscape(collabID))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// AddPaymentCredit records money received against an expectation.
func (c *Client) AddPaymentCredit(ctx context.Context, expectationID, amount, date string) (PaymentView, error) {
	body := map[string]any{"credited_amount": amount, "credited_date": date}
	var resp PaymentView
	endpoint := fmt.Sprintf("api/payments/%s/credits", url.PathEscape(expectationID))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// OverduePayments lists overdue expectations.
func (c *Client) OverduePayments(ctx context.Context) ([]OverduePayment, error) {
	var resp struct {
		Overdue []OverduePayment `json:"overdue"`
	}
	err := c.do(ctx, http.MethodGet, "api/payments/overdue", nil, &resp)
	return resp.Overdue, err
}

// DashboardSummary fetches the financial rollup.
func (c *Client) DashboardSummary(ctx context.Context) (Summary, error) {
	var resp Summary
	err := c.do(ctx, http.MethodGet, "api/dashboard/summary", nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
