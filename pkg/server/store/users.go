package store

import (
	"context"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/model"
)

// UserStore abstracts account storage
type UserStore interface {
	// Resolve loads the account named by a password credential, with its authorities
	Resolve(ctx context.Context, cred authenticator.PasswordCredential) (*model.User, error)

	// FindByUsername loads an account by username, with its authorities
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create stores a new account and its authorities
	Create(ctx context.Context, user *model.User) error

	// Ping verifies database connectivity
	Ping(ctx context.Context) error
}
