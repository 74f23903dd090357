package campay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/immodirect7-wq/immodirect/internal/app/config"
)

// ErrUnavailable marks every failure to reach or be understood by the
// Campay API. Callers must be able to tell "gateway said no" apart from
// "gateway could not be asked".
var ErrUnavailable = errors.New("campay gateway unavailable")

// Currency for all collections. Campay operates on XAF only.
const Currency = "XAF"

// Provider name recorded on ledger rows created through this client.
const Provider = "CAMPAY"

type CollectionRequest struct {
	Amount            int64
	From              string
	Description       string
	ExternalReference string
}

type CollectionResponse struct {
	Reference string `json:"reference"`
	USSDCode  string `json:"ussd_code"`
	Operator  string `json:"operator"`
}

type TransactionStatus struct {
	Reference         string `json:"reference"`
	ExternalReference string `json:"external_reference"`
	Status            string `json:"status"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	Operator          string `json:"operator"`
}

// Successful reports whether the gateway considers the collection complete.
func (t TransactionStatus) Successful() bool {
	return t.Status == "SUCCESSFUL"
}

// Failed reports whether the gateway considers the collection failed.
func (t TransactionStatus) Failed() bool {
	return t.Status == "FAILED"
}

// Client talks to the Campay collection API. It acquires and caches its own
// bearer token and re-acquires when the gateway rejects it as expired.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg config.CampayConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token/", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request rejected: %s, body: %s: %w", resp.Status, string(respBody), ErrUnavailable)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", ErrUnavailable)
	}
	if tokenResp.Token == "" {
		return "", fmt.Errorf("token response missing token: %w", ErrUnavailable)
	}

	ttl := tokenResp.ExpiresIn
	if ttl <= 0 {
		ttl = 3600
	}
	c.token = tokenResp.Token
	// Refresh a minute early so an in-flight call never carries a token
	// that expires mid-request.
	c.tokenExpiry = time.Now().Add(time.Duration(ttl-60) * time.Second)

	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
}

// RequestCollection asks Campay to charge the given mobile-money number.
// The returned provider reference identifies the collection on Campay's
// side; the final outcome arrives asynchronously via webhook.
func (c *Client) RequestCollection(ctx context.Context, request CollectionRequest) (*CollectionResponse, error) {
	body, err := json.Marshal(map[string]string{
		"amount":             strconv.FormatInt(request.Amount, 10),
		"currency":           Currency,
		"from":               request.From,
		"description":        request.Description,
		"external_reference": request.ExternalReference,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal collection request: %w", err)
	}

	respBody, err := c.doAuthorized(ctx, http.MethodPost, "/collect/", body)
	if err != nil {
		return nil, err
	}

	var collection CollectionResponse
	if err := json.Unmarshal(respBody, &collection); err != nil {
		return nil, fmt.Errorf("failed to decode collection response: %w", ErrUnavailable)
	}
	return &collection, nil
}

// CheckTransactionStatus queries the authoritative status of a collection by
// its reference. Webhook payloads are never trusted without this re-check.
func (c *Client) CheckTransactionStatus(ctx context.Context, reference string) (*TransactionStatus, error) {
	respBody, err := c.doAuthorized(ctx, http.MethodGet, "/transaction/"+reference+"/", nil)
	if err != nil {
		return nil, err
	}

	var status TransactionStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, fmt.Errorf("failed to decode transaction status response: %w", ErrUnavailable)
	}
	return &status, nil
}

func (c *Client) doAuthorized(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	respBody, status, err := c.attempt(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		// Token expired server-side; re-acquire once and retry.
		c.invalidateToken()
		respBody, status, err = c.attempt(ctx, method, path, body)
		if err != nil {
			return nil, err
		}
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("campay %s %s returned %d: %s: %w", method, path, status, string(respBody), ErrUnavailable)
	}
	return respBody, nil
}

func (c *Client) attempt(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build campay request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("campay %s %s failed: %w: %w", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read campay response: %w", ErrUnavailable)
	}
	return respBody, resp.StatusCode, nil
}
