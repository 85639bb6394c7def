package apiclient

import (
	"context"
	"net/http"

	"esgboard/internal/dto"
)

// Login signs in and stores the session.
func (c *Client) Login(ctx context.Context, username, password string) (dto.Profile, error) {
	return c.authenticate(ctx, "/auth/login", dto.Credentials{Username: username, Password: password})
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, creds dto.Credentials) (dto.Profile, error) {
	return c.authenticate(ctx, "/auth/register", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds dto.Credentials) (dto.Profile, error) {
	var res dto.AuthResult
	if err := c.DoPublic(ctx, http.MethodPost, path, nil, creds, &res); err != nil {
		return dto.Profile{}, err
	}
	if err := c.session.SetLogin(res); err != nil {
		return dto.Profile{}, err
	}
	return res.User, nil
}

// Logout revokes the server-side refresh tokens and always clears the local
// session; the server error, if any, is returned after clearing.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Get(ctx, "/auth/logout", nil, nil)
	if clearErr := c.session.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// Profile fetches the signed-in user and caches it in the session.
func (c *Client) Profile(ctx context.Context) (dto.Profile, error) {
	var p dto.Profile
	if err := c.Get(ctx, "/users/profile", nil, &p); err != nil {
		return dto.Profile{}, err
	}
	return p, c.session.SetUser(p)
}
