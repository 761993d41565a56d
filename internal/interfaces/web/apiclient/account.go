package apiclient

import (
	"context"
	"net/http"

	appidentity "github.com/community/backend/internal/application/identity"
)

// Login exchanges credentials for a session. Wrong credentials yield
// ErrUnauthorized.
func (c *Client) Login(ctx context.Context, email, password string) (*appidentity.LoginResult, error) {
	const endpoint = "/Account/Login"
	var out appidentity.LoginResult
	err := c.do(ctx, Session{}, call{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		Path:     endpoint,
		Body:     appidentity.LoginRequest{Email: email, Password: password},
		Out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the session on the API side
func (c *Client) Logout(ctx context.Context, sess Session) error {
	const endpoint = "/Account/Logout"
	return c.do(ctx, sess, call{Method: http.MethodPost, Endpoint: endpoint, Path: endpoint})
}
