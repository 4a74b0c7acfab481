package authn_jwt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/model"
	"github.com/doodlesbykumbi/conjur-authn/pkg/token"
)

type fakeResolver struct {
	payload     *token.Payload
	err         error
	checkExpiry []bool
}

func (f *fakeResolver) Resolve(ctx context.Context, raw string, checkExpiry bool) (*token.Payload, error) {
	f.checkExpiry = append(f.checkExpiry, checkExpiry)
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

type fakeAccounts map[string]*model.User

func (f fakeAccounts) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := f[username]
	if !ok {
		return nil, authenticator.ErrUserNotFound
	}
	return u, nil
}

func payloadFor(t *testing.T, claims map[string]any) *token.Payload {
	t.Helper()
	p, err := token.DecodePayload(claims, nil)
	require.NoError(t, err)
	return p
}

func TestAuthenticator_Name(t *testing.T) {
	auth := New(&fakeResolver{})
	assert.Equal(t, "authn-jwt", auth.Name())
	assert.True(t, auth.Supports(authenticator.CredentialToken))
	assert.False(t, auth.Supports(authenticator.CredentialPassword))
}

func TestNormalizeAuthorities(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		perms []string
		want  []string
	}{
		{
			name:  "roles are prefixed",
			roles: []string{"admin"},
			perms: []string{"user:read"},
			want:  []string{"ROLE_admin", "user:read"},
		},
		{
			name:  "existing prefix kept in any case",
			roles: []string{"ROLE_ops", "role_dev", "Role_qa"},
			want:  []string{"ROLE_ops", "Role_qa", "role_dev"},
		},
		{
			name:  "duplicates collapse",
			roles: []string{"admin", "ROLE_admin"},
			perms: []string{"user:read", "user:read"},
			want:  []string{"ROLE_admin", "user:read"},
		},
		{
			name:  "permissions are not prefixed",
			perms: []string{"admin"},
			want:  []string{"admin"},
		},
		{
			name: "empty",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAuthorities(tt.roles, tt.perms).Slice())
		})
	}
}

func TestAuthenticator_Authenticate_Success(t *testing.T) {
	resolver := &fakeResolver{payload: payloadFor(t, map[string]any{
		"sub":        "u1",
		"jti":        "t1",
		"roles":      []any{"admin"},
		"perms":      []any{"user:read"},
		"userid":     json.Number("42"),
		"userkey":    "k-9",
		"alias":      "Alice",
		"roleid":     "r1",
		"role":       "admin",
		"initial":    true,
		"restricted": false,
		"profile":    map[string]any{"locale": "en"},
	})}
	auth := New(resolver)

	result, err := auth.Authenticate(context.Background(), authenticator.AuthenticatorInput{
		Credential: authenticator.NewTokenCredential("a.b.c"),
		Details:    "req-1",
	})
	require.NoError(t, err)

	p := result.Principal
	assert.Equal(t, "u1", p.Username)
	assert.Equal(t, "t1", p.TokenID)
	assert.Equal(t, []string{"ROLE_admin", "user:read"}, result.Authorities.Slice())
	assert.True(t, result.Authorities.Equal(p.Authorities))
	assert.True(t, p.Enabled)
	assert.True(t, p.AccountNonExpired)
	assert.True(t, p.AccountNonLocked)
	assert.True(t, p.CredentialsNonExpired)
	assert.Equal(t, "42", p.UserID)
	assert.Equal(t, "k-9", p.UserKey)
	assert.Equal(t, "", p.UserCode)
	assert.Equal(t, "Alice", p.Alias)
	assert.Equal(t, []string{"user:read"}, p.Perms.Slice())
	assert.Equal(t, []string{"admin"}, p.Roles.Slice())
	assert.Equal(t, "r1", p.RoleID)
	assert.Equal(t, "admin", p.Role)
	assert.True(t, p.Initial)
	assert.False(t, p.Restricted)
	assert.Equal(t, "en", p.Profile["locale"])
	assert.Same(t, resolver.payload, result.Credentials)
	assert.Equal(t, "req-1", result.Details)
	assert.Equal(t, []bool{true}, resolver.checkExpiry)
}

func TestAuthenticator_Idempotent(t *testing.T) {
	resolver := &fakeResolver{payload: payloadFor(t, map[string]any{
		"sub": "u1", "roles": "admin,ops", "perms": "user:read",
	})}
	auth := New(resolver)

	first, err := auth.AuthenticateToken(context.Background(), "a.b.c", true, nil)
	require.NoError(t, err)
	second, err := auth.AuthenticateToken(context.Background(), "a.b.c", true, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAuthenticator_Authenticate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		err     error
		wantErr error
	}{
		{name: "empty token", raw: "", wantErr: authenticator.ErrTokenMissing},
		{name: "expired", raw: "a.b.c", err: authenticator.NewError(authenticator.FailureTokenExpired, "", nil), wantErr: authenticator.ErrTokenExpired},
		{name: "invalid", raw: "a.b.c", err: authenticator.NewError(authenticator.FailureTokenInvalid, "", nil), wantErr: authenticator.ErrTokenInvalid},
		{name: "malformed", raw: "a.b.c", err: authenticator.NewError(authenticator.FailureTokenMalformed, "", nil), wantErr: authenticator.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{err: tt.err}
			auth := New(resolver)

			result, err := auth.AuthenticateToken(context.Background(), tt.raw, true, nil)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.raw == "" {
				assert.Empty(t, resolver.checkExpiry, "resolver is not called for an empty token")
			}
		})
	}
}

func TestAuthenticator_PasswordCredentialRejected(t *testing.T) {
	_, err := New(&fakeResolver{}).Authenticate(context.Background(), authenticator.AuthenticatorInput{
		Credential: authenticator.NewPasswordCredential("alice", "pw"),
	})
	assert.ErrorIs(t, err, authenticator.ErrTokenMissing)
}

func TestAuthenticator_ForcedFlagsPassDefaultPolicy(t *testing.T) {
	auth := New(&fakeResolver{payload: payloadFor(t, map[string]any{"sub": "u1"})})

	result, err := auth.AuthenticateToken(context.Background(), "a.b.c", true, nil)
	require.NoError(t, err)
	assert.NoError(t, auth.AccountStatusPolicy().Check(result.Principal))
}

func TestAuthenticator_StatusClaimsIgnored(t *testing.T) {
	secret := []byte("status-claims-secret")
	resolver, err := token.NewResolver(token.Config{HMACSecret: secret})
	require.NoError(t, err)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                     "c1",
		"enabled":                 false,
		"locked":                  true,
		"accountNonExpired":       false,
		"credentials_non_expired": false,
		"roles":                   []string{"admin", "ROLE_admin", "role_x"},
		"perms":                   []string{"user:read", "user:read"},
		"exp":                     time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	auth := New(resolver)
	result, err := auth.AuthenticateToken(context.Background(), raw, true, nil)
	require.NoError(t, err)

	p := result.Principal
	assert.True(t, p.Enabled)
	assert.True(t, p.AccountNonExpired)
	assert.True(t, p.AccountNonLocked)
	assert.True(t, p.CredentialsNonExpired)
	assert.Equal(t, []string{"ROLE_admin", "role_x", "user:read"}, p.Authorities.Slice())
	assert.NoError(t, auth.AccountStatusPolicy().Check(p))
}

func TestAuthenticator_CustomPolicy(t *testing.T) {
	denied := errors.New("denied")
	auth := New(
		&fakeResolver{payload: payloadFor(t, map[string]any{"sub": "u1"})},
		WithAccountStatusPolicy(authenticator.AccountStatusPolicyFunc(func(authenticator.AccountStatus) error { return denied })),
	)

	_, err := auth.AuthenticateToken(context.Background(), "a.b.c", true, nil)
	assert.ErrorIs(t, err, denied)
}

func TestAuthenticator_WithCheckExpiry(t *testing.T) {
	resolver := &fakeResolver{payload: payloadFor(t, map[string]any{"sub": "u1"})}
	auth := New(resolver, WithCheckExpiry(false))

	_, err := auth.Authenticate(context.Background(), authenticator.AuthenticatorInput{
		Credential: authenticator.NewTokenCredential("a.b.c"),
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, resolver.checkExpiry)
}

func TestAuthenticator_WithAccountStatusSource(t *testing.T) {
	accounts := fakeAccounts{
		"active": {Username: "active", Enabled: true},
		"locked": {Username: "locked", Enabled: true, Locked: true},
	}

	tests := []struct {
		sub     string
		wantErr error
	}{
		{sub: "active"},
		{sub: "locked", wantErr: authenticator.ErrAccountLocked},
		{sub: "ghost", wantErr: authenticator.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.sub, func(t *testing.T) {
			auth := New(&fakeResolver{payload: payloadFor(t, map[string]any{"sub": tt.sub})}, WithAccountStatusSource(accounts))
			_, err := auth.AuthenticateToken(context.Background(), "a.b.c", true, nil)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthenticator_WithTokenResolver(t *testing.T) {
	secret := []byte("integration-secret-0123456789abcdef")
	resolver, err := token.NewResolver(token.Config{HMACSecret: secret})
	require.NoError(t, err)
	auth := New(resolver)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "svc-7",
		"roles":    []string{"ROLE_reader", "writer"},
		"usercode": 1234,
		"exp":      time.Now().Add(time.Minute).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	result, err := auth.AuthenticateToken(context.Background(), raw, true, nil)
	require.NoError(t, err)
	assert.Equal(t, "svc-7", result.Principal.Username)
	assert.Equal(t, "1234", result.Principal.UserCode)
	assert.Equal(t, []string{"ROLE_reader", "ROLE_writer"}, result.Authorities.Slice())
	assert.NoError(t, auth.Status(context.Background()))

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "svc-7",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = auth.AuthenticateToken(context.Background(), expired, true, nil)
	assert.ErrorIs(t, err, authenticator.ErrTokenExpired)

	result, err = auth.AuthenticateToken(context.Background(), expired, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "svc-7", result.Principal.Username)
}

func TestClaimString(t *testing.T) {
	p := payloadFor(t, map[string]any{"userid": nil, "userkey": true, "usercode": 12.5})
	assert.Equal(t, "", claimString(p, ClaimUserID))
	assert.Equal(t, "true", claimString(p, ClaimUserKey))
	assert.Equal(t, "12.5", claimString(p, ClaimUserCode))
	assert.Equal(t, "", claimString(p, "missing"))
}
