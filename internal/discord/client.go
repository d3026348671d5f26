package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultAPIBase = "https://discord.com/api"

	userEndpoint       = "/users/@me"
	userGuildsEndpoint = "/users/@me/guilds"
	tokenEndpoint      = "/oauth2/token"
)

// Guild is a guild entry from GET /users/@me/guilds. Owner is the true
// ownership flag; Permissions carries the permission bits, which are not
// sufficient for the dashboard (only real owners qualify).
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Owner       bool   `json:"owner"`
	Permissions string `json:"permissions"`
}

// User is the profile returned by GET /users/@me.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// TokenPair is the result of a refresh-token grant.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Client is a thin client for the pieces of the Discord REST API the
// dashboard needs. BaseURL is overridable for tests.
type Client struct {
	BaseURL      string
	HTTP         *http.Client
	ClientID     string
	ClientSecret string
	Retry        RetryPolicy
}

func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		BaseURL:      DefaultAPIBase,
		HTTP:         &http.Client{Timeout: 10 * time.Second},
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Retry:        DefaultRetryPolicy(),
	}
}

// CurrentUser fetches the token holder's own profile. It doubles as the live
// probe: a 401 here is proof the token is not usable regardless of what the
// local expiry metadata says.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, userEndpoint, accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserGuilds lists every guild the token's user belongs to, retrying
// transient upstream failures per the client's retry policy.
func (c *Client) UserGuilds(ctx context.Context, accessToken string) ([]Guild, error) {
	var guilds []Guild
	err := c.Retry.Do(ctx, func() error {
		guilds = nil
		return c.getJSON(ctx, userGuildsEndpoint, accessToken, &guilds)
	})
	if err != nil {
		return nil, err
	}
	return guilds, nil
}

// RefreshToken exchanges a refresh token for a new token pair. A rejected
// refresh token surfaces as ErrRefreshRejected so callers know to prompt a
// full re-authentication instead of retrying.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	data := url.Values{
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+tokenEndpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: status %d: %s", ErrRefreshRejected, resp.StatusCode, string(body))
		}
		return nil, &APIError{Kind: ClassifyStatus(resp.StatusCode), StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse refresh response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in refresh response")
	}

	return &TokenPair{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{Kind: ClassifyStatus(resp.StatusCode), StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
