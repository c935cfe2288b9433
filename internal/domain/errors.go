package domain

import "errors"

// Error taxonomy shared by services and the HTTP layer. Services wrap these
// sentinels with context via fmt.Errorf("...: %w", ...); the HTTP layer maps
// them to status codes with errors.Is.
var (
	ErrPermissionDenied      = errors.New("not enough permissions")
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation error")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
