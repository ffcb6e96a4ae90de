package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dalemusser/clubdesk/internal/domain/models"
)

// LoginResult is the backend's answer to a successful sign-in.
type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		UserID    json.Number `json:"user_id"`
		Role      string      `json:"role"`
		AccountID string      `json:"account_id"`
		Name      string      `json:"name"`
		Email     string      `json:"email"`
	} `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	form := NewForm(url.Values{"email": {email}, "password": {password}})
	var out LoginResult
	if _, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/login", Form: form, Resource: "login"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the backend the token is no longer used. Failures are not fatal to sign-out.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/logout", Form: NewForm(nil), Resource: "login"}, nil)
	return err
}

// CheckVendorEmail asks whether email belongs to an existing vendor or member.
func (c *Client) CheckVendorEmail(ctx context.Context, email string) (*models.VendorEmailCheck, error) {
	var out models.VendorEmailCheck
	_, err := c.Do(ctx, Request{
		Method:   http.MethodGet,
		Path:     "/vendors/check-email",
		Query:    url.Values{"email": {email}},
		Resource: "vendors",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Settings fetches a lookup table such as "tiers" or "listing_categories".
func (c *Client) Settings(ctx context.Context, table string) ([]models.LookupOption, error) {
	var out []models.LookupOption
	_, err := c.Do(ctx, Request{
		Method:   http.MethodGet,
		Path:     "/settings/" + url.PathEscape(table),
		Resource: "settings",
	}, &out)
	return out, err
}

// ConvertVendor turns the existing member user_id (carried in form) into a
// vendor and returns the new vendor's id.
func (c *Client) ConvertVendor(ctx context.Context, form *Form) (string, error) {
	var created struct {
		ID json.RawMessage `json:"id"`
	}
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/vendors/convert", Form: form, Resource: "vendors"}, &created)
	if err != nil {
		return "", err
	}
	return rawID(created.ID), nil
}
