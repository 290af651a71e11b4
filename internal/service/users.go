package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// Users provides administrative user management. It talks to the
// credential store directly; the auth service's password policy does
// not apply to administrative resets, only to self-service changes.
type Users struct {
	store           model.UserStore
	defaultPassword string
	logger          *logger.Logger
}

// NewUsers creates a new Users service.
func NewUsers(store model.UserStore, defaultPassword string, logger *logger.Logger) *Users {
	return &Users{store: store, defaultPassword: defaultPassword, logger: logger}
}

// List returns all users, password hashes stripped.
func (u *Users) List(ctx context.Context) ([]model.User, error) {
	return u.store.List(ctx)
}

// Create provisions a user with the configured default password.
func (u *Users) Create(ctx context.Context, email string, role model.Role) (model.User, error) {
	email = model.NormalizeEmail(email)
	if !validEmail(email) {
		return model.User{}, fmt.Errorf("%w: invalid email format", model.ErrValidation)
	}
	if !role.Valid() {
		return model.User{}, fmt.Errorf("%w: invalid role %q", model.ErrValidation, role)
	}

	user, err := u.store.Create(ctx, email, "", role)
	if err != nil {
		return model.User{}, err
	}

	return user.Sanitized(), nil
}

// Update applies a whitelisted partial update to a user record.
func (u *Users) Update(ctx context.Context, email string, update model.UserUpdate) (model.User, error) {
	user, err := u.store.Update(ctx, email, update)
	if err != nil {
		return model.User{}, err
	}
	return user.Sanitized(), nil
}

// ResetPassword puts a user back on the default password and raises the
// first-login flag so the next login forces a change.
func (u *Users) ResetPassword(ctx context.Context, email string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hash)
	firstLogin := true
	if _, err := u.store.Update(ctx, email, model.UserUpdate{
		PasswordHash: &hashStr,
		FirstLogin:   &firstLogin,
	}); err != nil {
		return err
	}

	u.logger.Info("Users service: password reset", "email", email)
	return nil
}

// Delete removes a user record. Outstanding tokens for the user become
// invalid at the next verify, since verify re-fetches the record.
func (u *Users) Delete(ctx context.Context, email string) error {
	return u.store.Delete(ctx, email)
}
