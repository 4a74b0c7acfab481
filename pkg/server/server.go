package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/config"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server/store"
)

type Server struct {
	Router      *mux.Router
	Registry    *authenticator.Registry
	Config      *config.AuthnConfig
	HealthStore store.HealthStore
	srv         *http.Server
}

func NewServer(
	registry *authenticator.Registry,
	cfg *config.AuthnConfig,
	healthStore store.HealthStore,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:      router,
		Registry:    registry,
		Config:      cfg,
		HealthStore: healthStore,
		srv:         srv,
	}
}

// IsTrustedProxy reports whether ip may set X-Forwarded-For
func (s *Server) IsTrustedProxy(ip string) bool {
	if s.Config == nil {
		return false
	}
	return s.Config.IsTrustedProxy(ip)
}

// Handler returns the router wrapped in the access log handler
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
