package shared

import "errors"

// Sentinel errors shared across modules. Handlers map these onto HTTP
// problem responses in platform/httpx.
var (
	// ErrNotFound indicates a referenced principal or role is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. The same value is
	// returned for an unknown email and a wrong password so clients cannot
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing, malformed, forged or expired
	// session token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates a valid session without sufficient privileges.
	ErrForbidden = errors.New("insufficient privileges")
	// ErrValidation indicates malformed input rejected before any storage
	// lookup.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a uniqueness conflict, e.g. a taken email.
	ErrDuplicate = errors.New("already exists")
)
