package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/raf-alpha/api-go/types"
	"github.com/raf-alpha/api-go/validation"
)

type LoginResult struct {
	Token        string             `json:"token"`
	RefreshToken string             `json:"refreshToken"`
	User         types.UserResponse `json:"-"`
}

type loginResponse struct {
	LoginResult
	UserUpdated struct {
		User types.UserResponse `json:"user"`
	} `json:"userUpdated"`
}

// Login signs in and, when the credential provider can keep it, stores the
// access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	in := types.LoginInput{Email: email, Password: password}
	if err := validation.Validate(ctx, c.lang, &in); err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/signIn", c.lang, in, &resp); err != nil {
		return nil, err
	}
	resp.User = resp.UserUpdated.User

	if saver, ok := c.creds.(TokenSaver); ok {
		if err := saver.SaveToken(resp.Token); err != nil {
			return nil, err
		}
	}
	return &resp.LoginResult, nil
}

// Logout revokes the refresh token and forgets the stored access token.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		in := map[string]string{"refreshToken": refreshToken}
		if err := c.sendJSON(ctx, http.MethodPost, "/auth/logout", c.lang, in, nil); err != nil {
			return err
		}
	}
	if saver, ok := c.creds.(TokenSaver); ok {
		return saver.ClearToken()
	}
	return nil
}

func (c *Client) SendResetCode(ctx context.Context, email string) error {
	in := types.EmailInput{Email: email}
	if err := validation.Validate(ctx, c.lang, &in); err != nil {
		return err
	}
	return c.sendJSON(ctx, http.MethodPost, "/auth/sendEmail", c.lang, in, nil)
}

func (c *Client) ResetPassword(ctx context.Context, in types.ResetPasswordInput) error {
	if err := validation.Validate(ctx, c.lang, &in); err != nil {
		return err
	}
	return c.sendJSON(ctx, http.MethodPost, "/auth/reset", c.lang, in, nil)
}

// SendVerificationCode mails the code a new admin's account must be created with.
func (c *Client) SendVerificationCode(ctx context.Context, email string) error {
	in := types.EmailInput{Email: email}
	if err := validation.Validate(ctx, c.lang, &in); err != nil {
		return err
	}
	return c.sendJSON(ctx, http.MethodPost, "/auth/sendEmailNew", c.lang, in, nil)
}

func (c *Client) AddUser(ctx context.Context, in types.UserInput) (*types.UserResponse, error) {
	if err := validation.Validate(ctx, c.lang, &in); err != nil {
		return nil, err
	}
	var resp struct {
		User types.UserResponse `json:"user"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/add", c.lang, in, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]types.UserResponse, error) {
	var resp struct {
		Users []types.UserResponse `json:"users"`
	}
	if err := c.sendJSON(ctx, http.MethodGet, "/auth/users", c.lang, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint, in types.UserEditInput) (*types.UserResponse, error) {
	if err := validation.Validate(ctx, c.lang, &in); err != nil {
		return nil, err
	}
	var resp struct {
		User types.UserResponse `json:"user"`
	}
	if err := c.sendJSON(ctx, http.MethodPut, "/auth/update/"+strconv.FormatUint(uint64(id), 10), c.lang, in, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("delete user: missing id")
	}
	return c.sendJSON(ctx, http.MethodDelete, "/auth/delete/"+strconv.FormatUint(uint64(id), 10), c.lang, nil, nil)
}

// GeneratePassword asks the server for a password that passes the strong
// password rule.
func (c *Client) GeneratePassword(ctx context.Context) (string, error) {
	var resp struct {
		Password string `json:"password"`
	}
	if err := c.sendJSON(ctx, http.MethodGet, "/auth/generatePassword", c.lang, nil, &resp); err != nil {
		return "", err
	}
	return resp.Password, nil
}
