package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexanderramin/millennium/internal/domain"
)

type wireUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u wireUser) toDomain() *domain.User {
	return &domain.User{ID: u.ID, Email: u.Email}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Auth implements repository.AuthRepo against the auth API.
type Auth struct {
	c *Client
}

// NewAuth creates an Auth over c.
func NewAuth(c *Client) *Auth {
	return &Auth{c: c}
}

func (a *Auth) CurrentUser(ctx context.Context) (*domain.User, error) {
	var u wireUser
	err := a.c.do(ctx, request{
		method:  http.MethodGet,
		path:    authPath + "/user",
		out:     &u,
		session: true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNoSession, err)
	}
	if u.ID == "" {
		return nil, domain.ErrNoSession
	}
	return u.toDomain(), nil
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	var resp tokenResponse
	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: strings.TrimSpace(email), Password: password},
		out:    &resp,
	})
	if err != nil {
		if apiErr, ok := asAPIError(err); ok && apiErr.Status == http.StatusBadRequest {
			apiErr.kind = domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := a.c.tokens.Save(resp.token()); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return resp.User.toDomain(), nil
}

// SignUp registers the account. When the store requires email confirmation
// it answers with the bare user and no session; SignUp then returns (nil, nil).
func (a *Auth) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	var resp struct {
		tokenResponse
		wireUser
	}
	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/signup",
		body:   credentials{Email: strings.TrimSpace(email), Password: password},
		out:    &resp,
	})
	if err != nil {
		if apiErr, ok := asAPIError(err); ok && isUserExists(apiErr) {
			apiErr.kind = domain.ErrUserExists
		}
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, nil
	}
	if err := a.c.tokens.Save(resp.token()); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return resp.User.toDomain(), nil
}

// SignOut revokes the session server-side when possible and always forgets
// it locally.
func (a *Auth) SignOut(ctx context.Context) error {
	tok, _ := a.c.tokens.Load()
	if tok == nil {
		return a.c.tokens.Clear()
	}
	err := a.c.do(ctx, request{
		method:  http.MethodPost,
		path:    authPath + "/logout",
		session: true,
	})
	if clearErr := a.c.tokens.Clear(); clearErr != nil {
		return clearErr
	}
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		return err
	}
	return nil
}

func isUserExists(e *APIError) bool {
	return e.Code == "user_already_exists" ||
		strings.Contains(strings.ToLower(e.Message), "already registered")
}
