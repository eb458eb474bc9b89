// Package remote talks to a hosted store: GoTrue-compatible auth under
// /auth/v1 and PostgREST-compatible tables under /rest/v1.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderramin/millennium/internal/config"
	"golang.org/x/oauth2"
)

const (
	authPath = "/auth/v1"
	restPath = "/rest/v1"
)

// Client holds the HTTP plumbing shared by the auth and table APIs.
type Client struct {
	baseURL  string
	anonKey  string
	timeout  time.Duration
	tokens   *config.TokenStore
	observer Observer

	// anon sends only the apikey header; session adds the user's bearer
	// token through an oauth2 transport.
	anon    *http.Client
	session *http.Client
}

// NewClient creates a Client for cfg.URL. The session token is read from and
// written back to tokens.
func NewClient(cfg config.Config, tokens *config.TokenStore, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	base := &apiKeyTransport{
		key: cfg.AnonKey,
		base: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
	c := &Client{
		baseURL:  cfg.URL,
		anonKey:  cfg.AnonKey,
		timeout:  cfg.Timeout(),
		tokens:   tokens,
		observer: observer,
		anon:     &http.Client{Transport: base},
	}
	c.session = &http.Client{
		Transport: &oauth2.Transport{
			Source: &storeTokenSource{c: c},
			Base:   base,
		},
	}
	return c
}

// apiKeyTransport sets the project API key on every request.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("apikey", t.key)
	if r.Header.Get("Authorization") == "" {
		r.Header.Set("Authorization", "Bearer "+t.key)
	}
	return t.base.RoundTrip(r)
}

// request describes one call. Out, when set, receives the decoded 2xx body.
type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	header  http.Header
	out     any
	session bool
}

func (c *Client) do(ctx context.Context, req request) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, err := c.roundTrip(ctx, req)

	switch {
	case err == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		err = ErrTimeout
	case isConnectionError(err):
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.observer.OnCallComplete(CallEvent{
		Method:    req.method,
		Path:      req.path,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *Client) roundTrip(ctx context.Context, req request) (int, error) {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range req.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	hc := c.anon
	if req.session {
		hc = c.session
	}
	httpResp, err := hc.Do(httpReq)
	if err != nil {
		// Unwrap url.Error so sentinels from the token source surface.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return 0, uerr.Err
		}
		return 0, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return httpResp.StatusCode, newAPIError(httpResp.StatusCode, respBody)
	}
	if req.out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, req.out); err != nil {
			return httpResp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return httpResp.StatusCode, nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	}
	if apiErr, ok := asAPIError(err); ok {
		if apiErr.Code != "" {
			return apiErr.Code
		}
		return fmt.Sprintf("HTTP_%d", apiErr.Status)
	}
	return "UNKNOWN"
}
