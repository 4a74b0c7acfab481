package authn_jwt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/identity"
	"github.com/doodlesbykumbi/conjur-authn/pkg/model"
	"github.com/doodlesbykumbi/conjur-authn/pkg/token"
)

// Claims copied onto the principal as strings
const (
	ClaimUserID   = "userid"
	ClaimUserKey  = "userkey"
	ClaimUserCode = "usercode"
)

// PayloadResolver verifies a raw token and returns its payload. Failures are
// reported as token_expired, token_invalid or token_malformed errors.
type PayloadResolver interface {
	Resolve(ctx context.Context, raw string, checkExpiry bool) (*token.Payload, error)
}

// AccountStatusSource supplies the live account behind a token's client id.
type AccountStatusSource interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type statusChecker interface {
	Status(ctx context.Context) error
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithCheckExpiry controls whether exp, nbf and iat are validated. Defaults to true.
func WithCheckExpiry(check bool) Option {
	return func(a *Authenticator) {
		a.checkExpiry = check
	}
}

// WithAccountStatusPolicy replaces the default account status policy.
func WithAccountStatusPolicy(policy authenticator.AccountStatusPolicy) Option {
	return func(a *Authenticator) {
		if policy != nil {
			a.policy = policy
		}
	}
}

// WithAccountStatusSource makes the authenticator copy the live account flags
// onto the principal before the policy runs. Without it every token holder is
// treated as enabled, unexpired and unlocked.
func WithAccountStatusSource(src AccountStatusSource) Option {
	return func(a *Authenticator) {
		a.accounts = src
	}
}

// Authenticator implements bearer JWT authentication
type Authenticator struct {
	resolver    PayloadResolver
	policy      authenticator.AccountStatusPolicy
	accounts    AccountStatusSource
	checkExpiry bool
}

var _ authenticator.Authenticator = (*Authenticator)(nil)

// New creates a JWT authenticator
func New(resolver PayloadResolver, opts ...Option) *Authenticator {
	a := &Authenticator{
		resolver:    resolver,
		policy:      authenticator.DefaultAccountStatusPolicy,
		checkExpiry: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return "authn-jwt"
}

// Supports reports whether kind is a bearer token
func (a *Authenticator) Supports(kind authenticator.CredentialKind) bool {
	return kind == authenticator.CredentialToken
}

// AccountStatusPolicy returns the policy applied to the built principal
func (a *Authenticator) AccountStatusPolicy() authenticator.AccountStatusPolicy {
	return a.policy
}

// Authenticate verifies a token credential
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (*authenticator.AuthResult, error) {
	cred, ok := input.Credential.Token()
	if !ok {
		return nil, authenticator.ErrTokenMissing
	}
	return a.AuthenticateToken(ctx, cred.RawToken, a.checkExpiry, input.Details)
}

// AuthenticateToken resolves raw and builds the principal it describes.
func (a *Authenticator) AuthenticateToken(ctx context.Context, raw string, checkExpiry bool, details interface{}) (*authenticator.AuthResult, error) {
	if raw == "" {
		return nil, authenticator.ErrTokenMissing
	}

	payload, err := a.resolver.Resolve(ctx, raw, checkExpiry)
	if err != nil {
		return nil, err
	}

	principal := BuildPrincipal(payload)

	if a.accounts != nil {
		user, err := a.accounts.FindByUsername(ctx, principal.Username)
		if err != nil {
			return nil, err
		}
		principal.Enabled = user.IsEnabled()
		principal.AccountNonExpired = user.IsAccountNonExpired()
		principal.AccountNonLocked = user.IsAccountNonLocked()
		principal.CredentialsNonExpired = user.IsCredentialsNonExpired()
	}

	if err := a.policy.Check(principal); err != nil {
		return nil, err
	}

	return authenticator.NewAuthResult(principal, payload, details), nil
}

// Status checks the resolver when it can report its own health
func (a *Authenticator) Status(ctx context.Context) error {
	if s, ok := a.resolver.(statusChecker); ok {
		return s.Status(ctx)
	}
	return nil
}

// BuildPrincipal maps a verified payload to a principal. The account flags are
// all set; tokens carry no account status.
func BuildPrincipal(payload *token.Payload) *identity.Principal {
	var profile map[string]any
	if payload.Profile != nil {
		profile = make(map[string]any, len(payload.Profile))
		for k, v := range payload.Profile {
			profile[k] = v
		}
	}

	return &identity.Principal{
		Username:              payload.ClientID,
		TokenID:               payload.TokenID,
		Authorities:           NormalizeAuthorities(payload.Roles, payload.Perms),
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		UserID:                claimString(payload, ClaimUserID),
		UserKey:               claimString(payload, ClaimUserKey),
		UserCode:              claimString(payload, ClaimUserCode),
		Alias:                 payload.Alias,
		Perms:                 identity.NewAuthorities(payload.Perms...),
		RoleID:                payload.RoleID,
		Role:                  payload.Role,
		Roles:                 identity.NewAuthorities(payload.Roles...),
		Initial:               payload.Initial,
		Restricted:            payload.Restricted,
		Profile:               profile,
	}
}

// NormalizeAuthorities prefixes each role with ROLE_ unless it already starts
// with it in any case, and adds permissions unchanged.
func NormalizeAuthorities(roles, perms []string) identity.Authorities {
	authorities := make(identity.Authorities, len(roles)+len(perms))
	for _, role := range roles {
		if identity.HasRolePrefix(role) {
			authorities.Add(role)
		} else {
			authorities.Add(identity.RolePrefix + role)
		}
	}
	for _, perm := range perms {
		authorities.Add(perm)
	}
	return authorities
}

// claimString renders a claim as a string. Absent and null claims are empty,
// never the literal "null". Numbers keep their JSON text, so 1234 is "1234".
func claimString(payload *token.Payload, name string) string {
	v, ok := payload.Claim(name)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return fmt.Sprint(v)
}
