package authenticator

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoAuthenticator is returned by Registry.Select when no enabled
// authenticator accepts the credential kind.
var ErrNoAuthenticator = errors.New("no enabled authenticator supports the credential")

// Authenticator defines the interface for all authenticators
type Authenticator interface {
	// Name returns the authenticator name (e.g., "authn", "authn-jwt")
	Name() string

	// Supports reports whether the authenticator accepts credentials of kind
	Supports(kind CredentialKind) bool

	// Authenticate verifies the credential and returns the normalized result
	Authenticate(ctx context.Context, input AuthenticatorInput) (*AuthResult, error)

	// Status checks if the authenticator is healthy
	Status(ctx context.Context) error
}

// AuthenticatorInput contains the input for authentication
type AuthenticatorInput struct {
	Credential Credential
	ClientIP   string
	// Details is an opaque value from the request context, copied to AuthResult.Details
	Details interface{}
}

// Registry holds all registered authenticators
type Registry struct {
	mu             sync.RWMutex
	authenticators map[string]Authenticator
	order          []string
	enabled        map[string]bool
}

// NewRegistry creates a new authenticator registry
func NewRegistry() *Registry {
	return &Registry{
		authenticators: make(map[string]Authenticator),
		enabled:        make(map[string]bool),
	}
}

// Register adds an authenticator to the registry
func (r *Registry) Register(auth Authenticator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authenticators[auth.Name()]; !ok {
		r.order = append(r.order, auth.Name())
	}
	r.authenticators[auth.Name()] = auth
}

// Enable enables an authenticator by name
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authenticators[name]; !ok {
		return fmt.Errorf("authenticator %q not found", name)
	}
	r.enabled[name] = true
	return nil
}

// Disable disables an authenticator by name
func (r *Registry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.enabled, name)
}

// Get returns an authenticator by name
func (r *Registry) Get(name string) (Authenticator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	auth, ok := r.authenticators[name]
	return auth, ok
}

// IsEnabled checks if an authenticator is enabled
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// Installed returns all installed authenticator names in registration order
func (r *Registry) Installed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Enabled returns all enabled authenticator names in registration order
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.enabled))
	for _, name := range r.order {
		if r.enabled[name] {
			names = append(names, name)
		}
	}
	return names
}

// Select returns the first enabled authenticator, in registration order,
// whose Supports predicate accepts the credential's kind.
func (r *Registry) Select(cred Credential) (Authenticator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		if !r.enabled[name] {
			continue
		}
		auth := r.authenticators[name]
		if auth.Supports(cred.Kind()) {
			return auth, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoAuthenticator, cred.Kind())
}

// Authenticate routes the input to the selected authenticator. The name of
// the authenticator that handled the call is returned even on failure.
func (r *Registry) Authenticate(ctx context.Context, input AuthenticatorInput) (*AuthResult, string, error) {
	auth, err := r.Select(input.Credential)
	if err != nil {
		return nil, "", err
	}
	result, err := auth.Authenticate(ctx, input)
	return result, auth.Name(), err
}
