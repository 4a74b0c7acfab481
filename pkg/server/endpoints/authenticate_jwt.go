package endpoints

import (
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server/middleware"
)

// RegisterAuthenticateJWTEndpoints registers the JWT authenticate endpoint
func RegisterAuthenticateJWTEndpoints(s *server.Server) {
	// POST /authn-jwt/authenticate - token in the "jwt" form field or a Bearer header
	s.Router.HandleFunc("/authn-jwt/authenticate", handleAuthenticateJWT(s.Registry, s.IsTrustedProxy)).Methods("POST")
}

func handleAuthenticateJWT(registry *authenticator.Registry, trusted func(string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details := middleware.Details(r, trusted)

		raw, err := jwtFromRequest(r)
		if err != nil {
			middleware.AuditAuthentication("authn-jwt", authenticator.CredentialToken, details.ClientIP, "", nil, err)
			middleware.WriteError(w, err)
			return
		}

		result, name, err := registry.Authenticate(r.Context(), authenticator.AuthenticatorInput{
			Credential: authenticator.NewTokenCredential(raw),
			ClientIP:   details.ClientIP,
			Details:    details,
		})
		middleware.AuditAuthentication(name, authenticator.CredentialToken, details.ClientIP, "", result, err)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, AuthenticateResponse{
			Authenticator: name,
			Principal:     result.Principal,
		})
	}
}

func jwtFromRequest(r *http.Request) (string, error) {
	if r.Header.Get("Authorization") != "" {
		return middleware.BearerToken(r)
	}
	if err := r.ParseForm(); err != nil {
		return "", authenticator.ErrTokenMalformed
	}
	raw := strings.TrimSpace(r.PostFormValue("jwt"))
	if raw == "" {
		return "", authenticator.ErrTokenMissing
	}
	return raw, nil
}
