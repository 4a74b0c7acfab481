package authenticator

//go:generate go run github.com/dmarkham/enumer -type CredentialKind -trimprefix Credential -transform lower -output credential_kind.gen.go

// CredentialKind identifies the variant held by a Credential.
type CredentialKind int

const (
	CredentialPassword CredentialKind = iota
	CredentialToken
)

// PasswordCredential is a username and plaintext secret.
type PasswordCredential struct {
	Username string
	Secret   string
}

// TokenCredential is a raw bearer token.
type TokenCredential struct {
	RawToken string
}

// Credential is the material presented by a caller. It holds exactly one of
// PasswordCredential or TokenCredential and is immutable once built.
type Credential struct {
	kind     CredentialKind
	password PasswordCredential
	token    TokenCredential
}

// NewPasswordCredential builds a password Credential.
func NewPasswordCredential(username, secret string) Credential {
	return Credential{
		kind:     CredentialPassword,
		password: PasswordCredential{Username: username, Secret: secret},
	}
}

// NewTokenCredential builds a bearer token Credential.
func NewTokenCredential(rawToken string) Credential {
	return Credential{
		kind:  CredentialToken,
		token: TokenCredential{RawToken: rawToken},
	}
}

// Kind returns the variant held by the credential.
func (c Credential) Kind() CredentialKind {
	return c.kind
}

// Password returns the password variant. ok is false for any other kind.
func (c Credential) Password() (PasswordCredential, bool) {
	return c.password, c.kind == CredentialPassword
}

// Token returns the token variant. ok is false for any other kind.
func (c Credential) Token() (TokenCredential, bool) {
	return c.token, c.kind == CredentialToken
}

// String never includes the secret or the token.
func (c Credential) String() string {
	if c.kind == CredentialPassword {
		return "password credential for " + c.password.Username
	}
	return c.kind.String() + " credential"
}

// MatchCredential calls the handler for the variant held by c and returns its
// result. Both handlers must be supplied.
func MatchCredential[T any](c Credential, onPassword func(PasswordCredential) T, onToken func(TokenCredential) T) T {
	switch c.kind {
	case CredentialToken:
		return onToken(c.token)
	default:
		return onPassword(c.password)
	}
}
