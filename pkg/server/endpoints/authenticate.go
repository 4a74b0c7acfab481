package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/identity"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server/middleware"
)

// AuthenticateResponse is returned by the login and JWT authenticate endpoints
type AuthenticateResponse struct {
	Authenticator string              `json:"authenticator"`
	Principal     *identity.Principal `json:"principal"`
}

// RegisterAuthenticateEndpoints registers the username/password login endpoint
func RegisterAuthenticateEndpoints(s *server.Server) {
	// POST /authn/login - HTTP Basic username/password
	s.Router.HandleFunc("/authn/login", handleLogin(s.Registry, s.IsTrustedProxy)).Methods("POST")
}

func handleLogin(registry *authenticator.Registry, trusted func(string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details := middleware.Details(r, trusted)

		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="authn"`)
			middleware.AuditAuthentication("authn", authenticator.CredentialPassword, details.ClientIP, "", nil, authenticator.ErrMissingCredentials)
			middleware.WriteError(w, authenticator.ErrMissingCredentials)
			return
		}

		result, name, err := registry.Authenticate(r.Context(), authenticator.AuthenticatorInput{
			Credential: authenticator.NewPasswordCredential(username, password),
			ClientIP:   details.ClientIP,
			Details:    details,
		})
		middleware.AuditAuthentication(name, authenticator.CredentialPassword, details.ClientIP, username, result, err)
		if err != nil {
			if middleware.StatusCode(err) == http.StatusUnauthorized {
				w.Header().Set("WWW-Authenticate", `Basic realm="authn"`)
			}
			middleware.WriteError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, AuthenticateResponse{
			Authenticator: name,
			Principal:     result.Principal,
		})
	}
}
