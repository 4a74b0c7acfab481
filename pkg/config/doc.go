// Package config provides configuration management for the authentication service.
//
// Settings are read from $AUTHN_CONFIG_PATH/authn.yml (default
// /etc/authn/config/authn.yml) and overridden by environment variables. The
// source of every attribute is tracked and shown by "authnctl configuration show".
//
// # Key Configuration Options
//
//   - AUTHN_AUTHENTICATORS: Enabled authenticators (authn, authn-jwt)
//   - AUTHN_CHECK_EXPIRY: Validate token expiry (default true)
//   - AUTHN_JWT_HMAC_SECRET: Shared secret for HS tokens (environment only)
//   - AUTHN_JWT_PUBLIC_KEYS, AUTHN_JWT_PUBLIC_KEYS_FILE, AUTHN_JWT_JWKS_URI: RSA keys
//   - AUTHN_CLAIM_MAPPING: Claim renames, e.g. "groups=roles,scope=perms"
//   - AUTHN_TRUSTED_PROXIES: CIDR ranges allowed to set X-Forwarded-For
//   - DATABASE_URL: Database connection
//   - PORT: Server listen port
package config
