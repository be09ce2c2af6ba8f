// Package ledger implements the HTTP client of the external points ledger.
// The ledger owns all balances; this service only reads them and posts
// credit/debit entries through this client.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the points-ledger REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a ledger client with a bearer token and request timeout.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Balance returns the user's balance for the given point type.
func (c *Client) Balance(ctx context.Context, userID int64, pointType string) (float64, error) {
	const op = "ledger.Balance"
	req, err := c.newRequest(ctx, http.MethodGet,
		fmt.Sprintf("/api/v1/balances/%d?point_type=%s", userID, pointType), nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	var out BalanceResponse
	if err := c.do(req, &out); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return out.Balance, nil
}

// PointType resolves the administrative point-type setting.
func (c *Client) PointType(ctx context.Context) (string, error) {
	const op = "ledger.PointType"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/settings/point-type", nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	var out PointTypeResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if out.PointType == "" {
		return "", fmt.Errorf("%s: empty point type", op)
	}
	return out.PointType, nil
}

// Credit posts a positive ledger entry (submission approval).
func (c *Client) Credit(ctx context.Context, entry EntryRequest) error {
	const op = "ledger.Credit"
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/entries/credit", entry)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Debit posts a negative ledger entry (checkout).
func (c *Client) Debit(ctx context.Context, entry EntryRequest) error {
	const op = "ledger.Debit"
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/entries/debit", entry)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AnnualLeaders returns one page of the annual points aggregation.
func (c *Client) AnnualLeaders(ctx context.Context, year, limit, offset int) ([]LeaderRow, error) {
	const op = "ledger.AnnualLeaders"
	req, err := c.newRequest(ctx, http.MethodGet,
		fmt.Sprintf("/api/v1/leaders?year=%d&limit=%d&offset=%d", year, limit, offset), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var out []LeaderRow
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// AnnualPosition returns a user's standing in the annual aggregation.
func (c *Client) AnnualPosition(ctx context.Context, userID int64, year int) (*PositionResponse, error) {
	const op = "ledger.AnnualPosition"
	req, err := c.newRequest(ctx, http.MethodGet,
		fmt.Sprintf("/api/v1/leaders/position?user_id=%d&year=%d", userID, year), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var out PositionResponse
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// RecentActivity returns the user's latest ledger transactions.
func (c *Client) RecentActivity(ctx context.Context, userID int64, limit int) ([]Transaction, error) {
	const op = "ledger.RecentActivity"
	req, err := c.newRequest(ctx, http.MethodGet,
		fmt.Sprintf("/api/v1/transactions?user_id=%d&limit=%d", userID, limit), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var out []Transaction
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
