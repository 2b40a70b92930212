package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrMalformedResponse  = fmt.Errorf("malformed API response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Browser state errors
	ErrAdminRequired     = fmt.Errorf("admin code required")
	ErrIndexOutOfRange   = fmt.Errorf("index out of range")
	ErrNothingToSelect   = fmt.Errorf("nothing to select")
	ErrUnsupportedFormat = fmt.Errorf("unsupported export format")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
