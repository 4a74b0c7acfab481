package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
)

var (
	hmacMethods = []string{"HS256", "HS384", "HS512"}
	rsaMethods  = []string{"RS256", "RS384", "RS512"}
)

// Config holds resolver configuration
type Config struct {
	// Issuer is the expected iss claim (optional)
	Issuer string

	// Audience is the expected aud claim (optional)
	Audience string

	// Algorithms restricts the accepted signing methods. Defaults to the HS
	// family when HMACSecret is set and the RS family when Keys is set.
	Algorithms []string

	// HMACSecret verifies HS256/384/512 tokens
	HMACSecret []byte

	// Keys verifies RS256/384/512 tokens
	Keys *KeySet

	// Leeway is the clock skew tolerated on exp, nbf and iat
	Leeway time.Duration

	// ClaimMapping renames source claims before decoding, e.g. {"groups": "roles"}
	ClaimMapping map[string]string
}

// Resolver verifies raw tokens and decodes their payload. It is safe for
// concurrent use.
type Resolver struct {
	config  Config
	methods []string
}

// NewResolver creates a resolver. At least one of HMACSecret or Keys is required.
func NewResolver(config Config) (*Resolver, error) {
	if len(config.HMACSecret) == 0 && config.Keys == nil {
		return nil, errors.New("token resolver requires an HMAC secret or a key set")
	}

	methods := config.Algorithms
	if len(methods) == 0 {
		if len(config.HMACSecret) > 0 {
			methods = append(methods, hmacMethods...)
		}
		if config.Keys != nil {
			methods = append(methods, rsaMethods...)
		}
	}

	return &Resolver{config: config, methods: methods}, nil
}

// Resolve verifies raw and returns its payload. With checkExpiry false the
// exp, nbf and iat claims are ignored; issuer and audience are still enforced.
func (r *Resolver) Resolve(ctx context.Context, raw string, checkExpiry bool) (*Payload, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(r.methods),
		jwt.WithJSONNumber(),
	}
	if checkExpiry {
		opts = append(opts, jwt.WithLeeway(r.config.Leeway))
		if r.config.Issuer != "" {
			opts = append(opts, jwt.WithIssuer(r.config.Issuer))
		}
		if r.config.Audience != "" {
			opts = append(opts, jwt.WithAudience(r.config.Audience))
		}
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := jwt.MapClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(raw, claims, r.keyFunc(ctx))
	if err != nil {
		return nil, classify(err)
	}

	if !checkExpiry {
		if err := r.validateIdentity(claims); err != nil {
			return nil, authenticator.NewError(authenticator.FailureTokenInvalid, "token validation failed", err)
		}
	}

	payload, err := DecodePayload(claims, r.config.ClaimMapping)
	if err != nil {
		return nil, authenticator.NewError(authenticator.FailureTokenMalformed, "token claims are malformed", err)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		payload.ExpiresAt = exp.Time
	}
	return payload, nil
}

// Status checks that the verification keys can be loaded
func (r *Resolver) Status(ctx context.Context) error {
	if r.config.Keys == nil {
		return nil
	}
	return r.config.Keys.Refresh(ctx)
}

func (r *Resolver) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		switch t.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if len(r.config.HMACSecret) == 0 {
				return nil, errors.New("no HMAC secret configured")
			}
			return r.config.HMACSecret, nil
		case *jwt.SigningMethodRSA:
			if r.config.Keys == nil {
				return nil, errors.New("no public keys configured")
			}
			kid, _ := t.Header["kid"].(string)
			return r.config.Keys.Key(ctx, kid)
		}
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
}

// validateIdentity checks issuer and audience when claims validation is off.
func (r *Resolver) validateIdentity(claims jwt.MapClaims) error {
	if r.config.Issuer != "" {
		iss, _ := claims.GetIssuer()
		if iss != r.config.Issuer {
			return fmt.Errorf("invalid issuer: expected %s, got %s", r.config.Issuer, iss)
		}
	}
	if r.config.Audience != "" {
		aud, _ := claims.GetAudience()
		for _, a := range aud {
			if a == r.config.Audience {
				return nil
			}
		}
		return errors.New("invalid audience")
	}
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return authenticator.NewError(authenticator.FailureTokenMalformed, "token is malformed", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return authenticator.NewError(authenticator.FailureTokenExpired, "token has expired", err)
	default:
		return authenticator.NewError(authenticator.FailureTokenInvalid, "token validation failed", err)
	}
}
