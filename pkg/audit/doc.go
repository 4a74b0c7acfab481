// Package audit provides audit logging for authentication operations.
//
// Events are written in RFC5424 syslog format to stdout and, when
// AUDIT_DATABASE_URL is set, persisted to the messages table. Set
// AUTHN_AUDIT_ENABLED=false to turn audit logging off.
//
// # Event Types
//
//   - AuthenticateEvent: password and token authentication attempts
//   - WhoamiEvent: identity checks
//
// # Usage
//
//	audit.Log(audit.AuthenticateEvent{
//	    User:              "alice",
//	    ClientIP:          clientIP,
//	    AuthenticatorName: "authn",
//	    Success:           true,
//	})
//
// Secrets and raw tokens are never part of an event.
package audit
