// Package identity provides the authenticated principal handed to the
// authorization layer.
//
// A Principal is produced by an authenticator after credentials have been
// verified and the account status policy has passed. It carries the
// normalized authority set (roles prefixed with ROLE_, permissions as-is)
// together with the optional attributes read from token claims.
//
// # Basic Usage
//
//	// Store in request context after authentication
//	ctx = identity.Set(ctx, result.Principal)
//
//	// Retrieve from context
//	p, ok := identity.Get(ctx)
//	if ok && p.HasRole("admin") {
//	    // ...
//	}
//
// # Authorities
//
// Authorities is a set: insertion order is irrelevant and duplicates collapse.
// It marshals to a sorted JSON array so responses are stable.
package identity
