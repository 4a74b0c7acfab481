// Package token resolves raw bearer tokens into verified payloads.
//
// A Resolver checks the signature, the issuer, the audience and, unless told
// otherwise, the temporal claims of a JWT, then decodes the claims into a
// Payload. Failures are reported as *authenticator.Error values of kind
// token_malformed, token_expired or token_invalid.
//
// # Keys
//
// HMAC tokens are verified with a shared secret. RSA tokens are verified with
// keys from a KeySet, which can be filled from an inline JWKS document, a
// JWKS file (optionally watched for changes), or a remote JWKS URI whose keys
// are cached for five minutes.
//
// # Claims
//
// Claim shapes vary between issuers. Roles and permissions may be arrays,
// single strings, or comma separated strings; flags may be booleans or
// strings; ids may be numbers. A claim mapping renames issuer specific claims
// (for example "groups" to "roles") before decoding.
package token
