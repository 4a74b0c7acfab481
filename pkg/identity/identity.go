package identity

import (
	"context"
	"strings"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Principal.
	Key ContextKey = "principal"
)

// RolePrefix marks an authority as a role.
const RolePrefix = "ROLE_"

// Principal is the authenticated identity produced by an authenticator.
// Both the password and the token path build the same shape; fields that do
// not apply to a path keep their zero value.
type Principal struct {
	// Username is the client id on the token path and the login on the password path.
	Username string `json:"username"`
	// TokenID is the jti of the presenting token. Empty for password authentication.
	TokenID string `json:"token_id,omitempty"`

	Authorities Authorities `json:"authorities"`

	Enabled               bool `json:"enabled"`
	AccountNonExpired     bool `json:"account_non_expired"`
	AccountNonLocked      bool `json:"account_non_locked"`
	CredentialsNonExpired bool `json:"credentials_non_expired"`

	UserID   string `json:"user_id,omitempty"`
	UserKey  string `json:"user_key,omitempty"`
	UserCode string `json:"user_code,omitempty"`
	Alias    string `json:"alias,omitempty"`

	Perms      Authorities    `json:"perms,omitempty"`
	RoleID     string         `json:"role_id,omitempty"`
	Role       string         `json:"role,omitempty"`
	Roles      Authorities    `json:"roles,omitempty"`
	Initial    bool           `json:"initial"`
	Restricted bool           `json:"restricted"`
	Profile    map[string]any `json:"profile,omitempty"`
}

// IsEnabled reports whether the account is enabled.
func (p *Principal) IsEnabled() bool { return p.Enabled }

// IsAccountNonExpired reports whether the account is still valid.
func (p *Principal) IsAccountNonExpired() bool { return p.AccountNonExpired }

// IsAccountNonLocked reports whether the account is unlocked.
func (p *Principal) IsAccountNonLocked() bool { return p.AccountNonLocked }

// IsCredentialsNonExpired reports whether the credentials are still valid.
func (p *Principal) IsCredentialsNonExpired() bool { return p.CredentialsNonExpired }

// HasAuthority reports whether the principal was granted the authority.
func (p *Principal) HasAuthority(authority string) bool {
	return p.Authorities.Contains(authority)
}

// HasRole reports whether the principal holds the role, with or without the
// ROLE_ prefix.
func (p *Principal) HasRole(role string) bool {
	if HasRolePrefix(role) {
		return p.Authorities.Contains(role)
	}
	return p.Authorities.Contains(RolePrefix + role)
}

// HasRolePrefix reports whether s starts with ROLE_, ignoring case.
func HasRolePrefix(s string) bool {
	return len(s) >= len(RolePrefix) && strings.EqualFold(s[:len(RolePrefix)], RolePrefix)
}

// Get retrieves the Principal from context.
func Get(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(Key).(*Principal)
	return p, ok
}

// Set stores the Principal in context.
func Set(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, Key, p)
}
