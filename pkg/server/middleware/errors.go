package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
)

// ErrUnsupportedCredential is returned for an Authorization scheme no
// authenticator understands
var ErrUnsupportedCredential = errors.New("unsupported authorization scheme")

// ErrorResponse is the JSON body of a failed request
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusCode maps an authentication error to an HTTP status
func StatusCode(err error) int {
	if _, ok := authenticator.KindOf(err); ok {
		return http.StatusUnauthorized
	}
	switch {
	case errors.Is(err, ErrUnsupportedCredential):
		return http.StatusBadRequest
	case errors.Is(err, authenticator.ErrNoAuthenticator):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// WriteError writes err as a JSON error response. Internal errors are not
// echoed to the client.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	detail := ErrorDetail{Code: "internal_error", Message: "internal server error"}

	if kind, ok := authenticator.KindOf(err); ok {
		detail.Code = kind.String()
		detail.Message = publicMessage(err)
	} else if status == http.StatusBadRequest {
		detail = ErrorDetail{Code: "unsupported_credential", Message: err.Error()}
	} else if status == http.StatusForbidden {
		detail = ErrorDetail{Code: "authenticator_not_enabled", Message: err.Error()}
	}

	// A challenge set by the handler (e.g. Basic on login) is kept.
	if status == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
		w.Header().Set("WWW-Authenticate", `Bearer realm="authn"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: detail})
}

// publicMessage is the failure message without the wrapped cause.
func publicMessage(err error) string {
	var e *authenticator.Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	kind, _ := authenticator.KindOf(err)
	return kind.String()
}
