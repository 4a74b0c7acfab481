package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/conjur-authn/pkg/audit"
	"github.com/doodlesbykumbi/conjur-authn/pkg/identity"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server/middleware"
)

// WhoamiResponse is the body of GET /whoami
type WhoamiResponse struct {
	ClientIP  string              `json:"client_ip"`
	UserAgent string              `json:"user_agent"`
	Principal *identity.Principal `json:"principal"`
}

func RegisterWhoamiEndpoint(s *server.Server) {
	bearer := middleware.NewBearer(s.Registry, s.IsTrustedProxy)

	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(bearer.Middleware)

	whoamiRouter.HandleFunc("", handleWhoami(s.IsTrustedProxy)).Methods("GET")
}

func handleWhoami(trusted func(string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := identity.Get(r.Context())
		details := middleware.Details(r, trusted)

		audit.Log(audit.WhoamiEvent{
			User:     p.Username,
			ClientIP: details.ClientIP,
			Success:  true,
		})

		respondWithJSON(w, http.StatusOK, WhoamiResponse{
			ClientIP:  details.ClientIP,
			UserAgent: details.UserAgent,
			Principal: p,
		})
	}
}
