// Package store provides storage abstractions for the authentication server.
//
// This package defines interfaces for database operations, allowing the
// authenticators and endpoints to be decoupled from the specific database
// implementation. Implementations live in the gorm subpackage.
//
// # Available Stores
//
//   - UserStore: account lookup for the password and token paths
//   - HealthStore: database connectivity checks
//
// # Usage
//
//	users := gorm.NewUserStore(db)
//	user, err := users.FindByUsername(ctx, "alice")
//	if err != nil {
//	    if errors.Is(err, authenticator.ErrUserNotFound) {
//	        // Handle not found
//	    }
//	}
package store
