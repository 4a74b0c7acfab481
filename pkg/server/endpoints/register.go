package endpoints

import "github.com/doodlesbykumbi/conjur-authn/pkg/server"

// RegisterAll registers all API endpoints on the server
func RegisterAll(s *server.Server) {
	RegisterAuthenticateEndpoints(s)
	RegisterAuthenticateJWTEndpoints(s)
	RegisterWhoamiEndpoint(s)
	RegisterStatusEndpoints(s)
}
