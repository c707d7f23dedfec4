package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"mlm-storefront/models"
)

// Error is a non-2xx backend response. Message carries the backend's own
// error field when one was sent.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: request failed with status %d", e.Status)
}

// Client talks to the storefront backend over its REST contract. Every
// request carries the bearer token set via SetToken, mirroring how the
// browser client attached its stored token to each call.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient builds a client for the given base URL with a 15 second request
// timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token attached to subsequent requests; an empty
// token detaches it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &Error{Status: res.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// Login exchanges credentials for a bearer token and attaches it to the
// client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	creds := map[string]string{"email": email, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", creds, &out); err != nil {
		return "", err
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

// FetchProfile retrieves the authenticated user. The backend answers either
// {"user":{...}} or the bare user object.
func (c *Client) FetchProfile(ctx context.Context) (models.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &raw); err != nil {
		return models.User{}, err
	}

	var wrapped struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return *wrapped.User, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return models.User{}, fmt.Errorf("decoding profile: %w", err)
	}
	return user, nil
}

// FetchProducts retrieves the catalog. The backend answers either
// {"products":[...]} or a bare array; both decode to the same slice.
func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/product", nil, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Products []models.Product `json:"products"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Products != nil {
		return wrapped.Products, nil
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decoding product list: %w", err)
	}
	return products, nil
}

// FetchProduct retrieves a single product by its canonical identifier.
func (c *Client) FetchProduct(ctx context.Context, id string) (models.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, &raw); err != nil {
		return models.Product{}, err
	}

	var wrapped struct {
		Product *models.Product `json:"product"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Product != nil {
		return *wrapped.Product, nil
	}

	var product models.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return models.Product{}, fmt.Errorf("decoding product: %w", err)
	}
	return product, nil
}

// FetchTeamOverview retrieves the raw team overview for the current user.
func (c *Client) FetchTeamOverview(ctx context.Context) (models.TeamOverview, error) {
	var overview models.TeamOverview
	if err := c.do(ctx, http.MethodGet, "/team/overview", nil, &overview); err != nil {
		return models.TeamOverview{}, err
	}
	return overview, nil
}

// FetchReferralInfo retrieves the user's referral code, share link and
// direct referral list.
func (c *Client) FetchReferralInfo(ctx context.Context) (models.ReferralInfo, error) {
	var info models.ReferralInfo
	if err := c.do(ctx, http.MethodGet, "/referral/info", nil, &info); err != nil {
		return models.ReferralInfo{}, err
	}
	return info, nil
}

// FetchReferralAnalytics retrieves the referral stat counters.
func (c *Client) FetchReferralAnalytics(ctx context.Context) (models.ReferralAnalytics, error) {
	var analytics models.ReferralAnalytics
	if err := c.do(ctx, http.MethodGet, "/referral/analytics", nil, &analytics); err != nil {
		return models.ReferralAnalytics{}, err
	}
	return analytics, nil
}
