package model

import (
	"context"
	"time"
)

// Claims is the structured data carried inside a token payload.
type Claims struct {
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	FirstLogin bool      `json:"first_login"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Issuer     string    `json:"issuer"`
}

// Refreshed returns a copy of the claims with the timestamps stripped,
// ready to be stamped again by the codec. Identity fields pass through
// unchanged.
func (c Claims) Refreshed() Claims {
	return Claims{
		Email:      c.Email,
		Role:       c.Role,
		FirstLogin: c.FirstLogin,
	}
}

// TokenCodec encodes and decodes signed bearer tokens. Implementations
// are pure: no persistent state, no I/O.
type TokenCodec interface {
	Issue(claims Claims) (string, error)
	Verify(token string) (*Claims, error)
}

// RevocationLedger is a persisted set of invalidated-token fingerprints.
// A token whose fingerprint is present must be rejected regardless of
// signature or expiry.
type RevocationLedger interface {
	IsRevoked(token string) bool
	Revoke(ctx context.Context, token string) error
}
