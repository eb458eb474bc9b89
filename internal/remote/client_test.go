package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/millennium/internal/config"
	"github.com/alexanderramin/millennium/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testKey = "anon-key"

func testClient(t *testing.T, h http.Handler) (*Client, *config.TokenStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendRemote
	cfg.URL = srv.URL
	cfg.AnonKey = testKey
	cfg.TimeoutMs = 2000

	tokens := &config.TokenStore{Path: filepath.Join(t.TempDir(), config.SessionFile)}
	return NewClient(cfg, tokens, NoopObserver{}), tokens
}

func signedIn(t *testing.T, tokens *config.TokenStore) {
	t.Helper()
	require.NoError(t, tokens.Save(&oauth2.Token{
		AccessToken:  "access-1",
		TokenType:    "bearer",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(time.Hour),
	}))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) { o.events = append(o.events, e) }

func TestClient_SendsAPIKeyAndBearer(t *testing.T) {
	c, tokens := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, wireUser{ID: "u1", Email: "ada@example.com"})
	}))
	signedIn(t, tokens)

	u, err := NewAuth(c).CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestClient_NoTokenSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	_, err := NewAuth(c).CurrentUser(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
	assert.Zero(t, hits.Load())
}

func TestClient_Timeout(t *testing.T) {
	c, tokens := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	c.timeout = 50 * time.Millisecond
	signedIn(t, tokens)

	_, err := NewTable(c, domain.Tasks).SelectAll(context.Background(), "")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Unavailable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.URL = "http://127.0.0.1:1"
	cfg.AnonKey = testKey
	tokens := &config.TokenStore{Path: filepath.Join(t.TempDir(), config.SessionFile)}
	c := NewClient(cfg, tokens, NoopObserver{})

	_, err := NewAuth(c).SignIn(context.Background(), "ada@example.com", "secret1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_APIErrorCarriesServerMessage(t *testing.T) {
	c, tokens := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"code":    "42501",
			"message": `permission denied for table tasks`,
			"details": nil,
			"hint":    nil,
		})
	}))
	signedIn(t, tokens)

	err := NewTable(c, domain.Tasks).Delete(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, "permission denied for table tasks", err.Error())

	apiErr, ok := asAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "42501", apiErr.Code)
}

func TestClient_UnauthorizedMapsToNoSession(t *testing.T) {
	c, tokens := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": "PGRST301", "message": "JWT expired"})
	}))
	signedIn(t, tokens)

	_, err := NewTable(c, domain.Projects).SelectAll(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoSession)
	assert.Equal(t, "JWT expired", err.Error())
}

func TestClient_RefreshesExpiredToken(t *testing.T) {
	c, tokens := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body["refresh_token"])
			writeJSON(w, http.StatusOK, tokenResponse{
				AccessToken:  "access-2",
				TokenType:    "bearer",
				ExpiresIn:    3600,
				RefreshToken: "refresh-2",
			})
		case "/auth/v1/user":
			assert.Equal(t, "Bearer access-2", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, wireUser{ID: "u1"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	require.NoError(t, tokens.Save(&oauth2.Token{
		AccessToken:  "access-1",
		TokenType:    "bearer",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Minute),
	}))

	u, err := NewAuth(c).CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	saved, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-2", saved.AccessToken)
	assert.Equal(t, "refresh-2", saved.RefreshToken)
}

func TestClient_RejectedRefreshEndsSession(t *testing.T) {
	c, tokens := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error_code": "refresh_token_not_found",
			"msg":        "Invalid Refresh Token: Refresh Token Not Found",
		})
	}))
	require.NoError(t, tokens.Save(&oauth2.Token{
		AccessToken:  "access-1",
		RefreshToken: "stale",
		Expiry:       time.Now().Add(-time.Minute),
	}))

	_, err := NewTable(c, domain.Tasks).SelectAll(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoSession)

	saved, err := tokens.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestClient_ObserverReceivesEvents(t *testing.T) {
	obs := &recordingObserver{}
	c, tokens := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "relation does not exist"})
	}))
	c.observer = obs
	signedIn(t, tokens)

	_, _ = NewTable(c, domain.Tasks).SelectAll(context.Background(), "")

	require.Len(t, obs.events, 1)
	ev := obs.events[0]
	assert.Equal(t, http.MethodGet, ev.Method)
	assert.Equal(t, "/rest/v1/tasks", ev.Path)
	assert.Equal(t, http.StatusNotFound, ev.Status)
	assert.False(t, ev.Success)
	assert.Equal(t, "HTTP_404", ev.ErrorCode)
}
