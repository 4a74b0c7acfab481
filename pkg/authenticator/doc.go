// Package authenticator defines the common contract for authenticators.
//
// Two credential forms are supported: a username/password pair and a bearer
// JSON Web Token. Each is verified by its own authenticator, and both produce
// the same AuthResult carrying an identity.Principal.
//
// # Authenticator Interface
//
// All authenticators implement the Authenticator interface:
//
//	type Authenticator interface {
//	    Name() string
//	    Supports(kind CredentialKind) bool
//	    Authenticate(ctx context.Context, input AuthenticatorInput) (*AuthResult, error)
//	    Status(ctx context.Context) error
//	}
//
// # Built-in Authenticators
//
// The following authenticators are available in subpackages:
//
//   - authn: username/password authentication - see [github.com/doodlesbykumbi/conjur-authn/pkg/authenticator/authn]
//   - authn-jwt: bearer JWT authentication - see [github.com/doodlesbykumbi/conjur-authn/pkg/authenticator/authn_jwt]
//
// # Credentials
//
// A Credential is a closed variant built with NewPasswordCredential or
// NewTokenCredential. Routing uses the Kind and the Supports predicate; the
// Registry picks the first enabled authenticator that accepts the kind.
//
// # Failures
//
// Every failure is an *Error carrying a FailureKind. Use errors.Is with the
// exported sentinels, or KindOf:
//
//	if errors.Is(err, authenticator.ErrTokenExpired) {
//	    // ...
//	}
//
// # Account Status Policy
//
// After credentials are verified both authenticators run an
// AccountStatusPolicy. DefaultAccountStatusPolicy rejects disabled, expired,
// locked and credentials-expired accounts in that order. A different policy
// is injected at construction time and cannot be changed afterwards.
package authenticator
