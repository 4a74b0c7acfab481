// Command authnctl runs and administers the authentication service.
//
// # Quick Start
//
//	# Run database migrations
//	authnctl db migrate
//
//	# Create a user
//	authnctl user create alice --authority ROLE_admin --authority user:read
//
//	# Start the server
//	AUTHN_JWT_HMAC_SECRET=... authnctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - AUTHN_CONFIG_PATH: directory holding authn.yml (default /etc/authn/config)
//   - AUTHN_AUTHENTICATORS: comma separated list of enabled authenticators
//   - AUTHN_JWT_HMAC_SECRET: secret for HS256/384/512 tokens
//   - AUTHN_LOG_LEVEL: set to debug to log SQL statements
//   - AUTHN_AUDIT_ENABLED: set to false to disable audit logging
//   - PORT, BIND_ADDRESS: server listen address
package main
