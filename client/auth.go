package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/Paulndambo/nismart-go/api"
)

// RegisterRequest is the body of POST /auth/register/. Password2 must match
// Password; the server enforces it but rejecting locally saves a round trip.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Password2   string `json:"password2"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Register creates an account and opens a session: the returned tokens and
// profile are written to the session store before Register returns.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*api.Credentials, error) {
	if req.Password != req.Password2 {
		return nil, errors.New("[Client.Register] password fields do not match")
	}

	var creds api.Credentials
	if err := c.postJSON(ctx, "/auth/register/", req, &creds); err != nil {
		return nil, err
	}
	if err := c.persistCredentials(&creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Login authenticates with username and password and opens a session.
func (c *Client) Login(ctx context.Context, username, password string) (*api.Credentials, error) {
	body := map[string]string{"username": username, "password": password}

	var creds api.Credentials
	if err := c.postJSON(ctx, "/auth/login/", body, &creds); err != nil {
		return nil, err
	}
	if err := c.persistCredentials(&creds); err != nil {
		return nil, err
	}
	c.logger.Info().Str("username", username).Msg("logged in")
	return &creds, nil
}

// Logout ends the session client-side. The server holds no session state to
// tear down; the refresh token simply ages out.
func (c *Client) Logout() error {
	if err := c.store.Clear(); err != nil {
		return errors.Wrap(err, "Client.Logout Clear")
	}
	return nil
}

// Profile fetches the authenticated user's profile and refreshes the cached
// copy in the session store.
func (c *Client) Profile(ctx context.Context) (*api.User, error) {
	var user api.User
	if err := c.getJSON(ctx, "/auth/profile/", nil, &user); err != nil {
		return nil, err
	}
	if err := c.store.SetProfile(&user); err != nil {
		return nil, errors.Wrap(err, "Client.Profile SetProfile")
	}
	return &user, nil
}

// ListUsers fetches all users (staff panels and transfer destination
// pickers). The server answers with either a bare array or a pagination
// envelope; callers get the items either way, and a malformed body reads as
// no users rather than an error.
func (c *Client) ListUsers(ctx context.Context) ([]api.User, error) {
	data, err := c.call(ctx, http.MethodGet, "/auth/list/", nil, nil)
	if err != nil {
		return []api.User{}, err
	}
	return api.ToSlice[api.User](data), nil
}

func (c *Client) persistCredentials(creds *api.Credentials) error {
	if err := c.store.SetTokens(creds.Tokens.Access, creds.Tokens.Refresh); err != nil {
		return errors.Wrap(err, "Client.persistCredentials SetTokens")
	}
	if err := c.store.SetProfile(&creds.User); err != nil {
		return errors.Wrap(err, "Client.persistCredentials SetProfile")
	}
	return nil
}
