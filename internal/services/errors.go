package services

import "errors"

var (
	// ErrPermissionDenied means the requester failed an authorization
	// predicate. Handlers turn it into a redirect with a message, never a
	// bare 403.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidCredentials covers both unknown-user and wrong-password on
	// login, indistinguishably.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
