package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiPrefix = "/api/v4"

// Client is a REST client bound to a single chat server and session.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the given server configuration.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote url is required")
	}
	baseURL := strings.TrimRight(cfg.URL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid remote url %q: %w", cfg.URL, err)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Strict transport timeouts; callers do not layer their own.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &Client{
		baseURL: baseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeoutDuration,
		},
	}, nil
}

// BaseURL returns the server base URL this client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken replaces the session token used for authentication.
func (c *Client) SetToken(token string) {
	c.token = token
}

// do issues a request against the API and decodes the JSON response into
// out (when non-nil). Non-2xx responses are decoded into an *AppError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// decodeError builds an *AppError from a failed response. The body is
// expected to be the server's structured error JSON; anything else is
// preserved as a plain message.
func decodeError(resp *http.Response) error {
	appErr := &AppError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := json.Unmarshal(data, appErr); err != nil || appErr.Message == "" && appErr.Id == "" {
		appErr.Message = strings.TrimSpace(string(data))
		if appErr.Message == "" {
			appErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	// The body's status_code field, if present, never overrides the wire status.
	appErr.StatusCode = resp.StatusCode
	return appErr
}

// GetMe fetches the profile of the user owning the session.
func (c *Client) GetMe(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// PatchMe submits raw changes to the current user and returns the
// updated profile.
func (c *Client) PatchMe(ctx context.Context, patch UserPatch) (*UserProfile, error) {
	var profile UserProfile
	if err := c.do(ctx, http.MethodPut, "/users/me/patch", patch, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfilesInChannel fetches the member profiles of one channel.
func (c *Client) GetProfilesInChannel(ctx context.Context, channelId string) ([]UserProfile, error) {
	var profiles []UserProfile
	path := "/users?in_channel=" + url.QueryEscape(channelId)
	if err := c.do(ctx, http.MethodGet, path, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetMyTeams fetches every team the current user belongs to.
func (c *Client) GetMyTeams(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := c.do(ctx, http.MethodGet, "/users/me/teams", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// GetMyTeamMembers fetches the current user's team memberships.
func (c *Client) GetMyTeamMembers(ctx context.Context) ([]TeamMembership, error) {
	var members []TeamMembership
	if err := c.do(ctx, http.MethodGet, "/users/me/teams/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// GetMyTeamUnreads fetches unread and mention counters per team.
func (c *Client) GetMyTeamUnreads(ctx context.Context) ([]TeamUnread, error) {
	var unreads []TeamUnread
	if err := c.do(ctx, http.MethodGet, "/users/me/teams/unread", nil, &unreads); err != nil {
		return nil, err
	}
	return unreads, nil
}

// GetPreferences fetches the current user's preferences.
func (c *Client) GetPreferences(ctx context.Context) ([]Preference, error) {
	var prefs []Preference
	if err := c.do(ctx, http.MethodGet, "/users/me/preferences", nil, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// GetClientConfig fetches the server configuration exposed to clients.
func (c *Client) GetClientConfig(ctx context.Context) (map[string]string, error) {
	var cfg map[string]string
	if err := c.do(ctx, http.MethodGet, "/config/client?format=old", nil, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetClientLicense fetches the server license exposed to clients.
func (c *Client) GetClientLicense(ctx context.Context) (map[string]string, error) {
	var license map[string]string
	if err := c.do(ctx, http.MethodGet, "/license/client?format=old", nil, &license); err != nil {
		return nil, err
	}
	return license, nil
}

// GetRolesByNames fetches role definitions for the given role names.
func (c *Client) GetRolesByNames(ctx context.Context, names []string) ([]Role, error) {
	var roles []Role
	if err := c.do(ctx, http.MethodPost, "/roles/names", names, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// GetChannelInfo fetches the extended metadata of one channel.
func (c *Client) GetChannelInfo(ctx context.Context, channelId string) (*ChannelInfo, error) {
	var info ChannelInfo
	path := "/channels/" + url.PathEscape(channelId) + "/info"
	if err := c.do(ctx, http.MethodGet, path, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AttachDevice registers a push-notification device token with the
// current session.
func (c *Client) AttachDevice(ctx context.Context, deviceToken string) error {
	body := map[string]string{"device_id": deviceToken}
	return c.do(ctx, http.MethodPut, "/users/sessions/device", body, nil)
}

// GetProfileImage fetches the raw avatar image bytes for a user.
func (c *Client) GetProfileImage(ctx context.Context, userId string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+"/users/"+url.PathEscape(userId)+"/image", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile image request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}
