package shared

import "fmt"

var (
	// Authentication errors
	ErrAuthFailed         = fmt.Errorf("authentication failed")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")

	// API and service errors
	ErrNetwork            = fmt.Errorf("network request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrValidation         = fmt.Errorf("validation failed")
	ErrNotFound           = fmt.Errorf("not found")
	ErrRequestInFlight    = fmt.Errorf("request already in flight")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
