package audit

import "fmt"

// AuthenticateEvent represents an authentication audit event
type AuthenticateEvent struct {
	User              string
	ClientIP          string
	AuthenticatorName string
	CredentialKind    string
	Success           bool
	// FailureKind is the machine readable failure classification, empty on success
	FailureKind  string
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	user := e.User
	if user == "" {
		user = "unknown client"
	}
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with authenticator %s", user, e.AuthenticatorName)
	}
	msg := fmt.Sprintf("%s failed to authenticate with authenticator %s", user, e.AuthenticatorName)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDAuth: {
			"authenticator": e.AuthenticatorName,
			"user":          e.User,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "authenticate",
			"result":    result,
		},
	}
	if e.CredentialKind != "" {
		sd[SDIDAuth]["credential"] = e.CredentialKind
	}
	if e.FailureKind != "" {
		sd[SDIDAction]["reason"] = e.FailureKind
	}
	return sd
}
