// Package middleware provides HTTP middleware and helpers shared by the
// authentication endpoints: bearer token extraction, client IP resolution
// behind trusted proxies, audit of authentication attempts, and the mapping
// of failures to HTTP responses.
package middleware
