package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/rentalhub/rentalhub/internal/endpoints"
)

// ErrRejected is returned when the identity service answers 2xx but
// reports the login or signup as unsuccessful
var ErrRejected = errors.New("identity service rejected the request")

// Login verifies credentials with the identity service
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	if err := c.check(ctx, "login", creds); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, c.endpoints.External.Login, creds)
}

// Signup registers a new user with the identity service
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if err := c.check(ctx, "signup", req); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, c.endpoints.External.Signup, req)
}

func (c *Client) authenticate(ctx context.Context, url string, body any) (*AuthResult, error) {
	var out AuthResult
	if err := c.Request(ctx, http.MethodPost, url, body, &out); err != nil {
		return nil, err
	}
	if out.ErrorMessage != "" || (out.Success != nil && !*out.Success) {
		c.logger.Warn().Str("url", url).Str("reason", out.ErrorMessage).Msg("Identity service rejected request")
		return nil, ErrRejected
	}
	return &out, nil
}

// GetUserEmail looks up a user's email address
func (c *Client) GetUserEmail(ctx context.Context, userID string) (string, error) {
	var out userEmailResponse
	url := endpoints.WithID(c.endpoints.External.UserEmail, userID)
	if err := c.Request(ctx, http.MethodGet, url, nil, &out); err != nil {
		return "", err
	}
	return out.Email, nil
}

// GetUserInfo looks up a user's profile and address
func (c *Client) GetUserInfo(ctx context.Context, userID string) (*UserDetails, error) {
	var out userInfoResponse
	url := endpoints.WithID(c.endpoints.External.UserInfo, userID)
	if err := c.Request(ctx, http.MethodGet, url, nil, &out); err != nil {
		return nil, err
	}
	return &out.Details, nil
}

// GetStripeCustomerID looks up the billing customer for a user
func (c *Client) GetStripeCustomerID(ctx context.Context, userID string) (string, error) {
	var out stripeCustomerResponse
	url := endpoints.WithID(c.endpoints.External.StripeCustomer, userID)
	if err := c.Request(ctx, http.MethodGet, url, nil, &out); err != nil {
		return "", err
	}
	return out.StripeCusID, nil
}
