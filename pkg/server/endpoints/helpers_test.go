package endpoints

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator/authn_jwt"
	"github.com/doodlesbykumbi/conjur-authn/pkg/config"
	"github.com/doodlesbykumbi/conjur-authn/pkg/model"
	"github.com/doodlesbykumbi/conjur-authn/pkg/password"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server"
	"github.com/doodlesbykumbi/conjur-authn/pkg/token"
)

var testSecret = []byte("endpoint-test-secret")

type memoryUsers map[string]*model.User

func (m memoryUsers) Resolve(ctx context.Context, cred authenticator.PasswordCredential) (*model.User, error) {
	u, ok := m[cred.Username]
	if !ok {
		return nil, authenticator.ErrUserNotFound
	}
	return u, nil
}

type mockHealthStore struct {
	err error
}

func (m *mockHealthStore) CheckConnectivity(ctx context.Context) error {
	return m.err
}

type testServerOptions struct {
	enabled []string
	health  error
	proxies []string
}

func newTestServer(t *testing.T, opts testServerOptions) *server.Server {
	t.Helper()

	hash, err := password.Hash("s3cret", 4)
	require.NoError(t, err)

	users := memoryUsers{
		"alice": {
			UserID:       "u-alice",
			Username:     "alice",
			PasswordHash: hash,
			Enabled:      true,
			Authorities: []model.UserAuthority{
				{UserID: "u-alice", Authority: "ROLE_admin"},
				{UserID: "u-alice", Authority: "user:read"},
			},
		},
		"locked": {
			UserID:       "u-locked",
			Username:     "locked",
			PasswordHash: hash,
			Enabled:      true,
			Locked:       true,
		},
	}

	resolver, err := token.NewResolver(token.Config{HMACSecret: testSecret, Issuer: "authn-test"})
	require.NoError(t, err)

	registry := authenticator.NewRegistry()
	registry.Register(authn.New(users, password.NewDelegatingVerifier()))
	registry.Register(authn_jwt.New(resolver))

	enabled := opts.enabled
	if enabled == nil {
		enabled = []string{"authn", "authn-jwt"}
	}
	for _, name := range enabled {
		require.NoError(t, registry.Enable(name))
	}

	cfg := &config.AuthnConfig{Authenticators: enabled, TrustedProxies: opts.proxies}

	var health *mockHealthStore
	if opts.health != nil {
		health = &mockHealthStore{err: opts.health}
	} else {
		health = &mockHealthStore{}
	}

	s := server.NewServer(registry, cfg, health, "127.0.0.1", "0")
	RegisterAll(s)
	return s
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["iss"]; !ok {
		claims["iss"] = "authn-test"
	}
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return raw
}

func serve(s *server.Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

var errDatabaseDown = errors.New("connection refused")
