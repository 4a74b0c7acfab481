// Package model defines the database models for the authentication service.
//
// # Core Models
//
//   - User: a stored account with its password hash and status flags
//   - UserAuthority: an authority (role or permission) granted to a user
//
// # Database Schema
//
//   - users: accounts, keyed by user_id with a unique username
//   - user_authorities: (user_id, authority) grants
//   - messages: audit records, see pkg/audit
package model
