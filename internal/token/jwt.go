package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tmeduca/investigacion-portal/internal/model"
)

// Claims is the JWT claim set on the wire: identity fields plus the
// registered iat/exp/iss timestamps.
type Claims struct {
	jwt.RegisteredClaims
	Email      string     `json:"email"`
	Role       model.Role `json:"role"`
	FirstLogin bool       `json:"first_login"`
}

// JWT implements model.TokenCodec backed by symmetric HMAC-SHA-256.
// It holds no state beyond its configuration and performs no I/O.
type JWT struct {
	secretKey string
	issuer    string
	ttl       time.Duration
}

// NewJWT creates a new JWT codec with the provided secret key, issuer
// and token lifetime.
func NewJWT(secretKey, issuer string, ttl time.Duration) *JWT {
	return &JWT{secretKey: secretKey, issuer: issuer, ttl: ttl}
}

// Issue stamps issued-at, expiry, issuer and a random token id onto the
// supplied claims and returns the signed three-segment token string. The
// token id keeps two tokens minted within the same second distinct, so
// revoking one never affects the other.
func (j *JWT) Issue(claims model.Claims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
		},
		Email:      claims.Email,
		Role:       claims.Role,
		FirstLogin: claims.FirstLogin,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks structure, signature and expiry, in that order, and
// returns the decoded claims. The signature is recomputed over the exact
// header+payload bytes and compared in constant time; expiry is only
// consulted after the signature passes.
func (j *JWT) Verify(tokenString string) (*model.Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}
	if !token.Valid {
		return nil, model.ErrBadSignature
	}

	out := &model.Claims{
		Email:      claims.Email,
		Role:       claims.Role,
		FirstLogin: claims.FirstLogin,
		Issuer:     claims.Issuer,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}

// mapParseError translates jwt parse failures into the codec's error
// kinds. Wrong segment count and undecodable segments surface as
// malformed; anything else that is not an expiry failure counts as a
// bad signature.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", model.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", model.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %w", model.ErrBadSignature, err)
	}
}
