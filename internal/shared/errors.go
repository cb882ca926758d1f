package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Remote catalog errors
	ErrTransport          = fmt.Errorf("transport error")
	ErrDecode             = fmt.Errorf("decode error")
	ErrNotFound           = fmt.Errorf("not found")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Scheduling errors
	ErrAutoRunActive = fmt.Errorf("auto run already active")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
