package middleware

import (
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/doodlesbykumbi/conjur-authn/pkg/audit"
	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/identity"
)

var bearerRegex = regexp.MustCompile(`^(?i)bearer\s+(\S+)\s*$`)

// RequestDetails is attached to every authentication call and comes back in
// AuthResult.Details.
type RequestDetails struct {
	ClientIP  string `json:"client_ip"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Bearer is middleware that authenticates Authorization: Bearer tokens
type Bearer struct {
	Registry *authenticator.Registry
	// Trusted reports whether a peer may set X-Forwarded-For
	Trusted func(ip string) bool
}

// NewBearer creates a new bearer token middleware
func NewBearer(registry *authenticator.Registry, trusted func(ip string) bool) *Bearer {
	return &Bearer{Registry: registry, Trusted: trusted}
}

// BearerToken extracts the token of an Authorization: Bearer header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", authenticator.ErrTokenMissing
	}
	matches := bearerRegex.FindStringSubmatch(authHeader)
	if len(matches) != 2 {
		return "", ErrUnsupportedCredential
	}
	return matches[1], nil
}

// Middleware returns an HTTP middleware that authenticates bearer tokens and
// stores the principal in the request context
func (b *Bearer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		details := Details(r, b.Trusted)

		raw, err := BearerToken(r)
		if err != nil {
			WriteError(w, err)
			return
		}

		result, name, err := b.Registry.Authenticate(r.Context(), authenticator.AuthenticatorInput{
			Credential: authenticator.NewTokenCredential(raw),
			ClientIP:   details.ClientIP,
			Details:    details,
		})
		AuditAuthentication(name, authenticator.CredentialToken, details.ClientIP, "", result, err)
		if err != nil {
			WriteError(w, err)
			return
		}

		ctx := identity.Set(r.Context(), result.Principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuditAuthentication records the outcome of an authentication attempt.
// user names the claimed identity when the result does not carry one.
func AuditAuthentication(name string, kind authenticator.CredentialKind, clientIP, user string, result *authenticator.AuthResult, err error) {
	event := audit.AuthenticateEvent{
		User:              user,
		ClientIP:          clientIP,
		AuthenticatorName: name,
		CredentialKind:    kind.String(),
		Success:           err == nil,
	}
	if result != nil && result.Principal != nil {
		event.User = result.Principal.Username
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		if k, ok := authenticator.KindOf(err); ok {
			event.FailureKind = k.String()
		}
	}
	audit.Log(event)
}

// Details builds the request details passed to authenticators
func Details(r *http.Request, trusted func(ip string) bool) RequestDetails {
	return RequestDetails{
		ClientIP:  ClientIP(r, trusted),
		UserAgent: r.UserAgent(),
	}
}

// ClientIP returns the peer address, or the first X-Forwarded-For entry when
// the peer is a trusted proxy
func ClientIP(r *http.Request, trusted func(ip string) bool) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if trusted == nil || !trusted(host) {
		return host
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return host
	}
	first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
	if net.ParseIP(first) == nil {
		return host
	}
	return first
}
