// Package ares implements the client of the Czech ARES business registry
// used to look up company data by IČO during registration.
//
// Lookups are single-attempt with no retry. Failures map to Czech
// user-facing messages by category; the ManualEntry flag tells the client
// to unlock the company fields for manual input.
package ares

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mhoralek/pointmarket/internal/models"
)

// LookupError carries the category-specific Czech message shown to the user
// when the registry is unreachable or the subject is unknown.
type LookupError struct {
	Message     string // User-facing Czech text
	ManualEntry bool   // Unlock company fields for manual input
	Err         error  // Underlying cause
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ares: %s: %v", e.Message, e.Err)
	}
	return "ares: " + e.Message
}

func (e *LookupError) Unwrap() error { return e.Err }

// User-facing messages per failure category.
const (
	msgNotFound    = "Subjekt s tímto IČO nebyl v registru ARES nalezen."
	msgTimeout     = "Služba ARES neodpovídá, zkuste to prosím později."
	msgUnavailable = "Ověření v registru ARES se nezdařilo, vyplňte prosím údaje ručně."
)

// Client talks to the ARES REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an ARES client with the given base URL and timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// subjectResponse mirrors the fields of the ARES economic-subject payload
// the registration form needs.
type subjectResponse struct {
	ICO           string `json:"ico"`
	ObchodniJmeno string `json:"obchodniJmeno"`
	Sidlo         struct {
		TextovaAdresa string `json:"textovaAdresa"`
	} `json:"sidlo"`
}

// Lookup fetches the economic subject for the given IČO. On failure it
// returns a *LookupError with the user-facing message; callers fall back to
// manual entry when ManualEntry is set.
func (c *Client) Lookup(ctx context.Context, icoNumber string) (*models.Company, error) {
	const op = "ares.Lookup"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/ekonomicke-subjekty/"+icoNumber, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &LookupError{Message: msgTimeout, ManualEntry: true, Err: err}
		}
		return nil, &LookupError{Message: msgUnavailable, ManualEntry: true, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &LookupError{Message: msgNotFound}
	case resp.StatusCode != http.StatusOK:
		return nil, &LookupError{
			Message:     msgUnavailable,
			ManualEntry: true,
			Err:         fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	var subject subjectResponse
	if err := json.NewDecoder(resp.Body).Decode(&subject); err != nil {
		return nil, &LookupError{Message: msgUnavailable, ManualEntry: true, Err: err}
	}

	return &models.Company{
		ICO:     subject.ICO,
		Name:    subject.ObchodniJmeno,
		Address: subject.Sidlo.TextovaAdresa,
	}, nil
}
