package endpoints

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server/store"
)

// StatusResponse is the body of GET /
type StatusResponse struct {
	Version string `json:"version"`
}

// AuthenticatorsResponse represents the response from /authenticators
type AuthenticatorsResponse struct {
	Installed []string `json:"installed"`
	Enabled   []string `json:"enabled"`
}

// AuthenticatorStatusResponse represents the response from authenticator status endpoint
type AuthenticatorStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status and info endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status (no auth required)
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /authenticators - List authenticators (no auth required)
	s.Router.HandleFunc("/authenticators", handleAuthenticators(s.Registry)).Methods("GET")

	// GET /{authenticator}/status - Authenticator status (no auth required)
	s.Router.HandleFunc("/{authenticator}/status", handleAuthenticatorStatus(s.Registry, s.HealthStore)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("AUTHN_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Version: version})
	}
}

func handleAuthenticators(registry *authenticator.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, AuthenticatorsResponse{
			Installed: registry.Installed(),
			Enabled:   registry.Enabled(),
		})
	}
}

func handleAuthenticatorStatus(registry *authenticator.Registry, healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["authenticator"]

		auth, ok := registry.Get(name)
		if !ok {
			respondWithJSON(w, http.StatusNotFound, AuthenticatorStatusResponse{
				Status: "error",
				Error:  "authenticator is not installed",
			})
			return
		}

		// Check 1: Database connectivity
		if healthStore != nil {
			if err := healthStore.CheckConnectivity(r.Context()); err != nil {
				respondWithJSON(w, http.StatusServiceUnavailable, AuthenticatorStatusResponse{
					Status: "error",
					Error:  "database connectivity check failed",
				})
				return
			}
		}

		// Check 2: Authenticator is enabled
		if !registry.IsEnabled(name) {
			respondWithJSON(w, http.StatusNotImplemented, AuthenticatorStatusResponse{
				Status: "error",
				Error:  "authenticator is not enabled",
			})
			return
		}

		// Check 3: Authenticator specific health (key sources, user store)
		if err := auth.Status(r.Context()); err != nil {
			respondWithJSON(w, http.StatusInternalServerError, AuthenticatorStatusResponse{
				Status: "error",
				Error:  err.Error(),
			})
			return
		}

		respondWithJSON(w, http.StatusOK, AuthenticatorStatusResponse{Status: "ok"})
	}
}
