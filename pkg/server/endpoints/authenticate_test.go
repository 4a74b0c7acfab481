package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/conjur-authn/pkg/server/middleware"
)

func TestLogin(t *testing.T) {
	s := newTestServer(t, testServerOptions{})

	t.Run("valid credentials return the principal", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/authn/login", nil)
		req.SetBasicAuth("alice", "s3cret")

		w := serve(s, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp AuthenticateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "authn", resp.Authenticator)
		assert.Equal(t, "alice", resp.Principal.Username)
		assert.Equal(t, "u-alice", resp.Principal.UserID)
		assert.True(t, resp.Principal.HasRole("admin"))
		assert.True(t, resp.Principal.HasAuthority("user:read"))
	})

	tests := []struct {
		name     string
		username string
		password string
		noAuth   bool
		wantCode string
	}{
		{name: "missing basic auth", noAuth: true, wantCode: "missing_credentials"},
		{name: "wrong password", username: "alice", password: "nope", wantCode: "bad_credentials"},
		{name: "unknown user", username: "mallory", password: "s3cret", wantCode: "user_not_found"},
		{name: "locked account", username: "locked", password: "s3cret", wantCode: "account_locked"},
		{name: "empty password", username: "alice", password: "", wantCode: "missing_credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/authn/login", nil)
			if !tt.noAuth {
				req.SetBasicAuth(tt.username, tt.password)
			}

			w := serve(s, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, `Basic realm="authn"`, w.Header().Get("WWW-Authenticate"))
			var resp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotContains(t, w.Body.String(), "s3cret")
		})
	}
}

func TestLogin_RejectsGet(t *testing.T) {
	s := newTestServer(t, testServerOptions{})

	req := httptest.NewRequest("GET", "/authn/login", nil)
	req.SetBasicAuth("alice", "s3cret")

	w := serve(s, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.NotContains(t, w.Body.String(), "u-alice")
}

func TestLogin_AuthenticatorDisabled(t *testing.T) {
	s := newTestServer(t, testServerOptions{enabled: []string{"authn-jwt"}})

	req := httptest.NewRequest("POST", "/authn/login", nil)
	req.SetBasicAuth("alice", "s3cret")

	w := serve(s, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "authenticator_not_enabled")
}

func TestAuthenticateJWT(t *testing.T) {
	s := newTestServer(t, testServerOptions{})

	raw := signToken(t, jwt.MapClaims{
		"sub":   "client-7",
		"jti":   "tok-1",
		"roles": []string{"admin"},
		"perms": []string{"user:read"},
	})

	t.Run("form field", func(t *testing.T) {
		form := url.Values{"jwt": {raw}}
		req := httptest.NewRequest("POST", "/authn-jwt/authenticate", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := serve(s, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp AuthenticateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "authn-jwt", resp.Authenticator)
		assert.Equal(t, "client-7", resp.Principal.Username)
		assert.Equal(t, "tok-1", resp.Principal.TokenID)
		assert.True(t, resp.Principal.HasAuthority("ROLE_admin"))
		assert.True(t, resp.Principal.HasAuthority("user:read"))
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/authn-jwt/authenticate", nil)
		req.Header.Set("Authorization", "Bearer "+raw)

		w := serve(s, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/authn-jwt/authenticate", nil)

		w := serve(s, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "token_missing")
	})

	t.Run("expired token", func(t *testing.T) {
		expired := signToken(t, jwt.MapClaims{"sub": "client-7", "exp": time.Now().Add(-time.Hour).Unix()})
		form := url.Values{"jwt": {expired}}
		req := httptest.NewRequest("POST", "/authn-jwt/authenticate", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := serve(s, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "token_expired")
	})
}
