package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer a.b.c", want: "a.b.c"},
		{name: "lowercase scheme", header: "bearer a.b.c", want: "a.b.c"},
		{name: "missing", header: "", wantErr: authenticator.ErrTokenMissing},
		{name: "other scheme", header: "Token token=abc", wantErr: ErrUnsupportedCredential},
		{name: "empty token", header: "Bearer ", wantErr: ErrUnsupportedCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, err := BearerToken(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientIP(t *testing.T) {
	trusted := func(ip string) bool { return ip == "10.0.0.1" }

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trusted    func(string) bool
		want       string
	}{
		{name: "no proxy", remoteAddr: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "forwarded from untrusted", remoteAddr: "192.0.2.1:1234", forwarded: "203.0.113.5", trusted: trusted, want: "192.0.2.1"},
		{name: "forwarded from trusted", remoteAddr: "10.0.0.1:1234", forwarded: "203.0.113.5, 10.0.0.1", trusted: trusted, want: "203.0.113.5"},
		{name: "trusted without header", remoteAddr: "10.0.0.1:1234", trusted: trusted, want: "10.0.0.1"},
		{name: "garbage forwarded", remoteAddr: "10.0.0.1:1234", forwarded: "not-an-ip", trusted: trusted, want: "10.0.0.1"},
		{name: "nil predicate ignores header", remoteAddr: "10.0.0.1:1234", forwarded: "203.0.113.5", want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(req, tt.trusted))
		})
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusCode(authenticator.ErrAccountLocked))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(fmt.Errorf("wrapped: %w", authenticator.ErrTokenExpired)))
	assert.Equal(t, http.StatusBadRequest, StatusCode(ErrUnsupportedCredential))
	assert.Equal(t, http.StatusForbidden, StatusCode(fmt.Errorf("%w: token", authenticator.ErrNoAuthenticator)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}

func TestWriteError(t *testing.T) {
	t.Run("failure kind hides cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := authenticator.NewError(authenticator.FailureTokenInvalid, "token validation failed", errors.New("key 42 rejected"))

		WriteError(w, err)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "token_invalid", resp.Error.Code)
		assert.Equal(t, "token validation failed", resp.Error.Message)
	})

	t.Run("keeps challenge set by handler", func(t *testing.T) {
		w := httptest.NewRecorder()
		w.Header().Set("WWW-Authenticate", `Basic realm="authn"`)

		WriteError(w, authenticator.ErrBadCredentials)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="authn"`, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("bearer challenge by default", func(t *testing.T) {
		w := httptest.NewRecorder()

		WriteError(w, authenticator.ErrTokenMissing)

		assert.Equal(t, `Bearer realm="authn"`, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("internal error", func(t *testing.T) {
		w := httptest.NewRecorder()

		WriteError(w, errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}
