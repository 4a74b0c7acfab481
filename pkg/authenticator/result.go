package authenticator

import "github.com/doodlesbykumbi/conjur-authn/pkg/identity"

// AuthResult is the normalized authentication record returned on success.
type AuthResult struct {
	Principal *identity.Principal
	// Credentials is the stored password hash on the password path and the
	// decoded token payload on the token path.
	Credentials interface{}
	Authorities identity.Authorities
	// Details is passed through from AuthenticatorInput untouched.
	Details interface{}
}

// NewAuthResult builds a result whose authorities are the principal's
// authority set at construction time.
func NewAuthResult(principal *identity.Principal, credentials, details interface{}) *AuthResult {
	return &AuthResult{
		Principal:   principal,
		Credentials: credentials,
		Authorities: principal.Authorities.Clone(),
		Details:     details,
	}
}
