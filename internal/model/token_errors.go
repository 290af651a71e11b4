package model

import "errors"

var (
	// ErrTokenMalformed indicates a structural parse failure: wrong
	// segment count or a segment that does not decode.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrBadSignature indicates the signature does not match the
	// header and payload bytes.
	ErrBadSignature = errors.New("token signature invalid")
	// ErrTokenExpired indicates a valid signature past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked indicates the token fingerprint is present in the
	// revocation ledger.
	ErrTokenRevoked = errors.New("token revoked")
)
