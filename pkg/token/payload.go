package token

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/mitchellh/mapstructure"
)

// Payload is the verified content of a bearer token.
type Payload struct {
	ClientID   string         `mapstructure:"sub" json:"client_id"`
	TokenID    string         `mapstructure:"jti" json:"token_id"`
	Roles      []string       `mapstructure:"roles" json:"roles"`
	Perms      []string       `mapstructure:"perms" json:"perms"`
	Alias      string         `mapstructure:"alias" json:"alias,omitempty"`
	RoleID     string         `mapstructure:"roleid" json:"role_id,omitempty"`
	Role       string         `mapstructure:"role" json:"role,omitempty"`
	Profile    map[string]any `mapstructure:"profile" json:"profile,omitempty"`
	Initial    bool           `mapstructure:"initial" json:"initial"`
	Restricted bool           `mapstructure:"restricted" json:"restricted"`

	// Claims holds every claim of the token after claim mapping.
	Claims    map[string]any `mapstructure:"-" json:"claims"`
	ExpiresAt time.Time      `mapstructure:"-" json:"expires_at,omitempty"`
}

// Claim returns a raw claim value.
func (p *Payload) Claim(name string) (any, bool) {
	v, ok := p.Claims[name]
	return v, ok
}

// DecodePayload decodes claims into a Payload. mapping renames source claims
// to payload claims before decoding; a mapped claim replaces any claim already
// present under the target name.
func DecodePayload(claims map[string]any, mapping map[string]string) (*Payload, error) {
	mapped := make(map[string]any, len(claims))
	for k, v := range claims {
		mapped[k] = v
	}
	for from, to := range mapping {
		if v, ok := claims[from]; ok {
			mapped[to] = v
		}
	}

	var payload Payload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       splitListHook,
		WeaklyTypedInput: true,
		Result:           &payload,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(mapped); err != nil {
		return nil, fmt.Errorf("failed to decode claims: %w", err)
	}
	payload.Claims = mapped
	return &payload, nil
}

// splitListHook turns "a,b c" into []string{"a", "b", "c"} for string slice targets.
func splitListHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.String {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	}), nil
}
