package linkshield

import (
	"context"
	"net/http"
	"net/url"
)

// The operations below are thin request builders over the backend's HTTP
// surface. None contain business logic; semantics are owned by the backend.

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/signup", userCredentials{Email: email, Password: password}, nil)
}

// LoginWithPassword exchanges email and password for a token and records the
// authenticated session via [Client.Login]. The token is stored and attached
// as-is; its contents are never inspected.
func (c *Client) LoginWithPassword(ctx context.Context, email, password string) error {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", userCredentials{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	return c.Login(ctx, resp.Token, email)
}

// Shorten creates a short link.
func (c *Client) Shorten(ctx context.Context, req ShortenRequest) (*ShortenResponse, error) {
	var resp ShortenResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Resolve fetches the target info behind a short ID.
func (c *Client) Resolve(ctx context.Context, shortID string) (*ResolveResponse, error) {
	var resp ResolveResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/"+url.PathEscape(shortID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EditURL updates the target or expiry of a short link.
func (c *Client) EditURL(ctx context.Context, shortID string, req EditRequest) error {
	return c.do(ctx, http.MethodPut, "/api/v1/"+url.PathEscape(shortID), req, nil)
}

// DeleteURL removes a short link.
func (c *Client) DeleteURL(ctx context.Context, shortID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/"+url.PathEscape(shortID), nil, nil)
}

// AddTags attaches tags to a short link.
func (c *Client) AddTags(ctx context.Context, shortID string, tags []string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/addTag", tagRequest{ShortID: shortID, Tags: tags}, nil)
}

// Scams lists all reported scams.
func (c *Client) Scams(ctx context.Context) ([]Scam, error) {
	var resp scamsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/GetScams", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Scams, nil
}

// VerifiedScams lists scams verified by an admin.
func (c *Client) VerifiedScams(ctx context.Context) ([]Scam, error) {
	var resp verifiedScamsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/getVerifiedScams", nil, &resp); err != nil {
		return nil, err
	}
	return resp.VerifiedScams, nil
}

// ReportScam reports a URL as a scam.
func (c *Client) ReportScam(ctx context.Context, scam Scam) error {
	return c.do(ctx, http.MethodPost, "/api/v1/AddScams", scam, nil)
}

// Vote adds the caller's vote to an already-reported scam URL.
func (c *Client) Vote(ctx context.Context, scamURL string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/vote", urlBody{URL: scamURL}, nil)
}

// AddAdmin registers an administrator.
func (c *Client) AddAdmin(ctx context.Context, admin Admin) error {
	return c.do(ctx, http.MethodPost, "/api/v1/addAdmin", admin, nil)
}

// VerifyScam marks a reported URL as verified. Admin-only on the backend.
func (c *Client) VerifyScam(ctx context.Context, scamURL string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/verifyScamByAdmin", urlBody{URL: scamURL}, nil)
}
