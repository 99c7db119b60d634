package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"smart-poll/poll-cli/internal/session"
)

var _ session.API = (*Client)(nil)

type tokenResponse struct {
	Token string `json:"token"`
}

type credentialsRequest struct {
	NewLogin    string `json:"newLogin"`
	NewPassword string `json:"newPassword"`
}

// CreateUser provisions an anonymous user and returns its session token.
// This is the one unauthenticated call the client makes.
func (c *Client) CreateUser(ctx context.Context) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/users", nil, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, login, password string) (string, error) {
	path := fmt.Sprintf("/users/%s/session", url.PathEscape(login))
	body := struct {
		Password string `json:"password"`
	}{Password: password}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// UpdateCredentials attaches a login and password to the current
// (anonymous) user, keeping the session token.
func (c *Client) UpdateCredentials(ctx context.Context, newLogin, newPassword string) error {
	body := credentialsRequest{NewLogin: newLogin, NewPassword: newPassword}
	return c.do(ctx, http.MethodPut, "/users/me/credentials", body, nil)
}

// GetMe fetches the identity behind the current token.
func (c *Client) GetMe(ctx context.Context) (session.Identity, error) {
	var identity session.Identity
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &identity); err != nil {
		return session.Identity{}, err
	}
	return identity, nil
}
