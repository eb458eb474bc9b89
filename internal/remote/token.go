package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderramin/millennium/internal/domain"
	"golang.org/x/oauth2"
)

// tokenResponse is the auth API's session payload.
type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	RefreshToken string   `json:"refresh_token"`
	User         wireUser `json:"user"`
}

func (r tokenResponse) token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		RefreshToken: r.RefreshToken,
	}
	switch {
	case r.ExpiresAt > 0:
		tok.Expiry = time.Unix(r.ExpiresAt, 0)
	case r.ExpiresIn > 0:
		tok.Expiry = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return tok
}

// storeTokenSource serves the persisted session token, refreshing and
// writing it back once it expires.
type storeTokenSource struct {
	c *Client
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.c.tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoSession, err)
	}
	if tok == nil {
		return nil, domain.ErrNoSession
	}
	if tok.Valid() {
		return tok, nil
	}
	if tok.RefreshToken == "" {
		return nil, domain.ErrNoSession
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.c.timeout)
	defer cancel()
	fresh, err := s.c.refresh(ctx, tok.RefreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.c.tokens.Save(fresh); err != nil {
		return nil, fmt.Errorf("saving refreshed session: %w", err)
	}
	return fresh, nil
}

// refresh exchanges a refresh token for a new session. A rejected refresh
// token ends the session.
func (c *Client) refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	var resp tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPath + "/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": refreshToken},
		out:    &resp,
	})
	if err != nil {
		if apiErr, ok := asAPIError(err); ok && apiErr.Status < http.StatusInternalServerError {
			_ = c.tokens.Clear()
			return nil, fmt.Errorf("%w: %s", domain.ErrNoSession, apiErr.Message)
		}
		return nil, err
	}
	return resp.token(), nil
}
