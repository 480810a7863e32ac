package domain

import "errors"

// Error taxonomy shared by the store, service and api layers
var (
	ErrUnauthenticated      = errors.New("user must be authenticated to perform this action")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotFound             = errors.New("not found")
	ErrInvalidCode          = errors.New("invalid or already used invite code")
	ErrAlreadyExists        = errors.New("couple already exists")
	ErrCodeGenerationFailed = errors.New("failed to generate a unique invite code")
	ErrInvalidInput         = errors.New("invalid input")
	ErrSelfPairing          = errors.New("cannot connect with your own code")
	ErrAlreadyPaired        = errors.New("user is already connected to a partner")
	ErrDuplicate            = errors.New("duplicate key")
)
