package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// Auth orchestrates the token lifecycle over the credential store, the
// token codec and the revocation ledger. It is the only layer with
// request-shaped inputs and outputs; the precise token error kinds from
// the codec and ledger are collapsed here into a single unauthorized
// result so a caller can never tell why a token was rejected.
type Auth struct {
	users  model.UserStore
	codec  model.TokenCodec
	ledger model.RevocationLedger
	logger *logger.Logger
}

// NewAuth creates a new Auth service.
func NewAuth(users model.UserStore, codec model.TokenCodec, ledger model.RevocationLedger, logger *logger.Logger) *Auth {
	return &Auth{users: users, codec: codec, ledger: ledger, logger: logger}
}

// LoginResult carries a freshly issued token and the authenticated
// user, password hash stripped.
type LoginResult struct {
	Token string
	User  model.User
}

// VerifyResult carries the decoded claims of an accepted token and the
// current user record behind them.
type VerifyResult struct {
	Claims model.Claims
	User   model.User
}

// Login validates credentials and issues a token embedding the user's
// email, role and first-login flag. Wrong password and unknown email
// produce the same unauthorized result; the distinction only reaches
// the log.
func (a *Auth) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = model.NormalizeEmail(email)
	if !validEmail(email) {
		return LoginResult{}, fmt.Errorf("%w: invalid email format", model.ErrValidation)
	}

	if !a.users.ValidatePassword(ctx, email, password) {
		a.logger.Info("Auth service: failed login attempt", "email", email)
		return LoginResult{}, model.ErrUnauthorized
	}

	user, err := a.users.Get(ctx, email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to get user: %w", err)
	}

	now := time.Now()
	if _, err := a.users.Update(ctx, email, model.UserUpdate{LastLogin: &now}); err != nil {
		return LoginResult{}, fmt.Errorf("failed to update last login: %w", err)
	}

	token, err := a.codec.Issue(model.Claims{
		Email:      user.Email,
		Role:       user.Role,
		FirstLogin: user.FirstLogin,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login successful", "email", email)

	user.LastLogin = &now
	return LoginResult{Token: token, User: user.Sanitized()}, nil
}

// Logout revokes the presented token. The token must still be valid:
// expired, malformed or already-revoked tokens are rejected.
func (a *Auth) Logout(ctx context.Context, token string) error {
	claims, err := a.checkToken(token)
	if err != nil {
		return err
	}

	if err := a.ledger.Revoke(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	a.logger.Info("Auth service: logout successful", "email", claims.Email)
	return nil
}

// Verify accepts a token if the codec accepts it, the ledger does not
// contain it, and the user behind it still exists. Deleting a user
// therefore implicitly invalidates every token they hold.
func (a *Auth) Verify(ctx context.Context, token string) (VerifyResult, error) {
	claims, err := a.checkToken(token)
	if err != nil {
		return VerifyResult{}, err
	}

	user, err := a.users.Get(ctx, claims.Email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: token for deleted user rejected", "email", claims.Email)
		return VerifyResult{}, model.ErrUnauthorized
	}
	if err != nil {
		return VerifyResult{}, fmt.Errorf("failed to get user: %w", err)
	}

	return VerifyResult{Claims: *claims, User: user.Sanitized()}, nil
}

// Refresh mints a new token carrying the old token's identity claims
// with fresh timestamps, then revokes the old token. The ledger is
// consulted before minting, so a token that was logged out cannot be
// refreshed back to life.
func (a *Auth) Refresh(ctx context.Context, token string) (string, error) {
	claims, err := a.checkToken(token)
	if err != nil {
		return "", err
	}

	newToken, err := a.codec.Issue(claims.Refreshed())
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if err := a.ledger.Revoke(ctx, token); err != nil {
		return "", fmt.Errorf("failed to revoke old token: %w", err)
	}

	a.logger.Info("Auth service: token refreshed", "email", claims.Email)
	return newToken, nil
}

// ChangePassword verifies the presented token and current password,
// checks the new password against the policy, and stores the new hash.
// The presented token is deliberately not revoked: existing sessions
// stay valid until natural expiry.
func (a *Auth) ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error {
	result, err := a.Verify(ctx, token)
	if err != nil {
		return err
	}

	if !a.users.ValidatePassword(ctx, result.Claims.Email, currentPassword) {
		a.logger.Info("Auth service: password change with wrong current password", "email", result.Claims.Email)
		return model.ErrUnauthorized
	}

	if err := ValidatePasswordPolicy(newPassword); err != nil {
		return err
	}

	if err := a.users.ChangePassword(ctx, result.Claims.Email, newPassword); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	a.logger.Info("Auth service: password changed", "email", result.Claims.Email)
	return nil
}

// checkToken runs the codec and ledger checks shared by every
// token-gated operation. Any failure collapses to ErrUnauthorized; the
// precise reason is logged but never returned.
func (a *Auth) checkToken(token string) (*model.Claims, error) {
	claims, err := a.codec.Verify(token)
	if err != nil {
		a.logger.Debug("Auth service: token rejected", "error", err.Error())
		return nil, model.ErrUnauthorized
	}

	if a.ledger.IsRevoked(token) {
		a.logger.Debug("Auth service: revoked token rejected", "email", claims.Email)
		return nil, model.ErrUnauthorized
	}

	return claims, nil
}
