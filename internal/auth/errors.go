package auth

import (
	"errors"
	"fmt"
)

// ErrAuthFailed is matched by every login and registration failure.
var ErrAuthFailed = errors.New("authentication failed")

var (
	ErrMissingFields    = fmt.Errorf("%w: missing required fields", ErrAuthFailed)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters", ErrAuthFailed, MinPasswordLength)
	ErrEmailTaken       = fmt.Errorf("%w: email already registered", ErrAuthFailed)
)
