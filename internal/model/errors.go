package model

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a duplicate creation attempt.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrUnauthorized is the collapsed caller-facing result for any
	// credential or token failure. The precise token error kinds below
	// never leave the auth service.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation indicates a policy violation in user-supplied input.
	ErrValidation = errors.New("validation failed")
	// ErrStorage indicates an I/O failure reading or writing records.
	ErrStorage = errors.New("storage failure")
)
