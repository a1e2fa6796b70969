package backend

import "errors"

var (
	// ErrAuthentication marks a backend failure caused by a missing or
	// rejected API key. Dependents show an actionable credentials message
	// and fall back to manual entry.
	ErrAuthentication = errors.New("backend authentication failed")

	// ErrUnavailable marks a transport-level or server-side failure. It is
	// recoverable; the caller stays usable in degraded mode.
	ErrUnavailable = errors.New("backend unavailable")
)

const errorTypeAuthentication = "authentication"
