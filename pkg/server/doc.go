// Package server provides the HTTP server for the authentication service.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logs.
// Authentication is delegated to an authenticator.Registry, which routes each
// credential to the first enabled authenticator that supports its kind.
//
// # Server Setup
//
//	srv := server.NewServer(registry, cfg, healthStore, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - POST /authn/login - HTTP Basic username/password authentication
//   - POST /authn-jwt/authenticate - bearer JWT authentication (form field "jwt")
//   - GET /whoami - principal of the bearer token
//   - GET /authenticators - installed and enabled authenticators
//   - GET /{authenticator}/status - authenticator health
//   - GET / - service status
package server
