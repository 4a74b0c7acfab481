package authn

import (
	"context"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/identity"
	"github.com/doodlesbykumbi/conjur-authn/pkg/model"
)

// UserLookup resolves the stored account for a password credential.
// A missing account must be reported as authenticator.ErrUserNotFound.
type UserLookup interface {
	Resolve(ctx context.Context, cred authenticator.PasswordCredential) (*model.User, error)
}

// PasswordVerifier compares a plaintext secret with a stored hash.
type PasswordVerifier interface {
	Matches(plain, hash string) bool
}

// Pinger is implemented by lookups that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithAccountStatusPolicy replaces the default account status policy.
func WithAccountStatusPolicy(policy authenticator.AccountStatusPolicy) Option {
	return func(a *Authenticator) {
		if policy != nil {
			a.policy = policy
		}
	}
}

// Authenticator implements username/password authentication
type Authenticator struct {
	users    UserLookup
	verifier PasswordVerifier
	policy   authenticator.AccountStatusPolicy
}

var _ authenticator.Authenticator = (*Authenticator)(nil)

// New creates a password authenticator
func New(users UserLookup, verifier PasswordVerifier, opts ...Option) *Authenticator {
	a := &Authenticator{
		users:    users,
		verifier: verifier,
		policy:   authenticator.DefaultAccountStatusPolicy,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return "authn"
}

// Supports reports whether kind is a password credential
func (a *Authenticator) Supports(kind authenticator.CredentialKind) bool {
	return kind == authenticator.CredentialPassword
}

// AccountStatusPolicy returns the policy applied after the password check
func (a *Authenticator) AccountStatusPolicy() authenticator.AccountStatusPolicy {
	return a.policy
}

// Authenticate verifies a password credential
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (*authenticator.AuthResult, error) {
	cred, ok := input.Credential.Password()
	if !ok {
		return nil, authenticator.ErrMissingCredentials
	}
	return a.AuthenticatePassword(ctx, cred, input.Details)
}

// AuthenticatePassword checks cred against the stored account and returns a
// principal carrying the account's authorities unchanged.
func (a *Authenticator) AuthenticatePassword(ctx context.Context, cred authenticator.PasswordCredential, details interface{}) (*authenticator.AuthResult, error) {
	if cred.Username == "" {
		return nil, authenticator.ErrMissingPrincipal
	}
	if cred.Secret == "" {
		return nil, authenticator.ErrMissingCredentials
	}

	user, err := a.users.Resolve(ctx, cred)
	if err != nil {
		return nil, err
	}

	if !a.verifier.Matches(cred.Secret, user.PasswordHash) {
		return nil, authenticator.ErrBadCredentials
	}

	if err := a.policy.Check(user); err != nil {
		return nil, err
	}

	principal := &identity.Principal{
		Username:              user.Username,
		Authorities:           identity.NewAuthorities(user.AuthorityNames()...),
		Enabled:               user.IsEnabled(),
		AccountNonExpired:     user.IsAccountNonExpired(),
		AccountNonLocked:      user.IsAccountNonLocked(),
		CredentialsNonExpired: user.IsCredentialsNonExpired(),
		UserID:                user.UserID,
	}

	return authenticator.NewAuthResult(principal, user.PasswordHash, details), nil
}

// Status checks that the user store is reachable
func (a *Authenticator) Status(ctx context.Context) error {
	if p, ok := a.users.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
