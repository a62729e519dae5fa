package sdk

import (
	"context"
	"net/url"
)

// Login submits form-encoded credentials and returns the issued token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Token, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	var token Token
	if err := c.postForm(ctx, "/auth/token", form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// SetupUser creates the first administrator. The account is always requested as admin.
func (c *Client) SetupUser(ctx context.Context, creds Credentials) (*Token, error) {
	req := SetupRequest{
		Username: creds.Username,
		Password: creds.Password,
		IsAdmin:  true,
	}
	var token Token
	if err := c.post(ctx, "/auth/setup", req, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (c *Client) CheckSetupStatus(ctx context.Context) (*SetupStatus, error) {
	var status SetupStatus
	err := c.get(ctx, "/auth/setup-status", &status)
	return &status, err
}

func (c *Client) GetUserInfo(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.get(ctx, "/auth/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.post(ctx, "/auth/change-password", PasswordChange{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, nil)
}
