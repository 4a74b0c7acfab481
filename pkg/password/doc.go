// Package password verifies plaintext secrets against stored hashes.
//
// The default encoding is bcrypt. Stored hashes may carry an encoding prefix,
// "{bcrypt}" or "{noop}", which DelegatingVerifier uses to pick the verifier.
// Hashes without a prefix are treated as bcrypt.
package password
