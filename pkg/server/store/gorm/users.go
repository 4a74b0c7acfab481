package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/conjur-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/conjur-authn/pkg/model"
	"github.com/doodlesbykumbi/conjur-authn/pkg/server/store"
)

// Ensure UserStore implements store.UserStore
var _ store.UserStore = (*UserStore)(nil)

// UserStore implements store.UserStore using GORM
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Resolve loads the account named by a password credential
func (s *UserStore) Resolve(ctx context.Context, cred authenticator.PasswordCredential) (*model.User, error) {
	return s.FindByUsername(ctx, cred.Username)
}

// FindByUsername loads an account and its authorities
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	tx := s.db.WithContext(ctx).
		Preload("Authorities").
		Where("username = ?", username).
		First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, authenticator.NewError(authenticator.FailureUserNotFound, "user "+username+" not found", tx.Error)
		}
		return nil, fmt.Errorf("failed to load user: %w", tx.Error)
	}
	return &user, nil
}

// Create stores a new account and its authorities in one transaction
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Authorities").Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		for i := range user.Authorities {
			user.Authorities[i].UserID = user.UserID
		}
		if len(user.Authorities) > 0 {
			if err := tx.Create(&user.Authorities).Error; err != nil {
				return fmt.Errorf("failed to grant authorities: %w", err)
			}
		}
		return nil
	})
}

// Ping verifies database connectivity
func (s *UserStore) Ping(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}
