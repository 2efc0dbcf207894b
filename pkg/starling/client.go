// Package starling is a thin typed client for the Starling Bank REST
// API, covering the endpoints the browser needs: accounts, balances,
// spaces, the category-scoped feed, recategorization, and monthly
// spending insights.
package starling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.starlingbank.com/api/v2"

// TransportError is any failure on the wire: a non-2xx status, a
// network error, or an undecodable body. It is propagated to the caller
// unmodified; the client never retries.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("starling: %s %s: %s", e.Method, e.Path, http.StatusText(e.StatusCode))
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
		return msg
	}
	return fmt.Sprintf("starling: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the Starling API with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the given API root and access token. Token
// presence is the config layer's concern; the client assumes one.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Method: method, Path: path, Err: fmt.Errorf("marshal request body: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(detail)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Method: method, Path: path, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// Accounts lists the token holder's accounts. The first entry is the
// primary account.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var resp struct {
		Accounts []Account `json:"accounts"`
	}
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// AccountBalance fetches the live balance figures for one account.
func (c *Client) AccountBalance(ctx context.Context, accountUID string) (Balance, error) {
	var b Balance
	path := fmt.Sprintf("/accounts/%s/balance", accountUID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &b); err != nil {
		return Balance{}, err
	}
	return b, nil
}

// Spaces lists the savings goals and spending spaces of one account.
func (c *Client) Spaces(ctx context.Context, accountUID string) (Spaces, error) {
	var s Spaces
	path := fmt.Sprintf("/account/%s/spaces", accountUID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &s); err != nil {
		return Spaces{}, err
	}
	return s, nil
}

// Feed returns the feed items of one (account, category) pair changed
// since the given cutoff, in server order.
func (c *Client) Feed(ctx context.Context, accountUID, categoryUID string, changesSince time.Time) ([]FeedItem, error) {
	var resp struct {
		FeedItems []FeedItem `json:"feedItems"`
	}
	path := fmt.Sprintf("/feed/account/%s/category/%s", accountUID, categoryUID)
	query := url.Values{"changesSince": {changesSince.UTC().Format(time.RFC3339)}}
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.FeedItems, nil
}

// SetSpendingCategory reassigns one feed item's spending category.
func (c *Client) SetSpendingCategory(ctx context.Context, accountUID, categoryUID, feedItemUID, spendingCategory string) error {
	path := fmt.Sprintf("/feed/account/%s/category/%s/%s/spending-category", accountUID, categoryUID, feedItemUID)
	body := map[string]string{"spendingCategory": spendingCategory}
	return c.do(ctx, http.MethodPut, path, nil, body, nil)
}

// SpendingInsights fetches the per-category spending breakdown for one
// month. The API takes the month as an upper-case month name.
func (c *Client) SpendingInsights(ctx context.Context, accountUID string, year int, month time.Month) (Insights, error) {
	var in Insights
	path := fmt.Sprintf("/accounts/%s/spending-insights/spending-category", accountUID)
	query := url.Values{
		"year":  {strconv.Itoa(year)},
		"month": {strings.ToUpper(month.String())},
	}
	if err := c.do(ctx, http.MethodGet, path, query, nil, &in); err != nil {
		return Insights{}, err
	}
	return in, nil
}
