package portfolio

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-portfolio-client/coordinator"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/jrsteele09/go-portfolio-client/session"
	"github.com/pkg/errors"
)

// Credentials are what the login form collects.
type Credentials struct {
	Email    string
	Password string
	Remember bool // Accepted for parity with the web form; the session lifetime is the server's
}

// Login authenticates and marks the session logged in. The server answers
// with session cookies, which the coordinator's jar keeps.
func (c *Client) Login(ctx context.Context, creds Credentials) (*session.User, error) {
	req, err := coordinator.NewJSONRequest(http.MethodPost, "/auth/login",
		model.LoginRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return nil, err
	}
	req.SkipRefresh = true

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	var auth model.AuthResponse
	if err := resp.DecodeJSON(&auth); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] invalid login response")
	}

	user := session.User{Email: creds.Email}
	if me, err := c.Me(ctx); err == nil {
		user.Username = me.Username
	} else {
		c.log.Debug().Err(err).Msg("could not load user after login")
	}
	c.session.LoginWithToken(user, auth.Token)
	return &user, nil
}

// Register creates an account and logs it in.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*session.User, error) {
	r, err := coordinator.NewJSONRequest(http.MethodPost, "/auth/register", req)
	if err != nil {
		return nil, err
	}
	r.SkipRefresh = true

	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	var auth model.AuthResponse
	if err := resp.DecodeJSON(&auth); err != nil {
		return nil, errors.Wrap(err, "[Client.Register] invalid register response")
	}
	user := session.User{Email: req.Email, Username: req.FirstName + " " + req.LastName}
	c.session.LoginWithToken(user, auth.Token)
	return &user, nil
}

// Logout ends the session on the server and locally. The local session is
// logged out even when the server call fails; that failure is returned.
func (c *Client) Logout(ctx context.Context) error {
	req := coordinator.NewRequest(http.MethodPost, "/auth/logout")
	req.SkipRefresh = true
	_, err := c.send(ctx, req)
	c.session.Logout()
	return err
}

// Me returns the identity behind the current session cookie.
func (c *Client) Me(ctx context.Context) (*model.CurrentUser, error) {
	req := get("/auth/me")
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	var me model.CurrentUser
	if err := resp.DecodeJSON(&me); err != nil {
		return nil, errors.Wrap(err, "[Client.Me] invalid response")
	}
	return &me, nil
}
