package shared

import "fmt"

var (
	// Asset resolution and delivery
	ErrForbidden     = fmt.Errorf("path escapes asset root")
	ErrAssetNotFound = fmt.Errorf("asset not found")
	ErrAssetIO       = fmt.Errorf("asset read failed")
	ErrRateLimited   = fmt.Errorf("rate limit exceeded")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Access log store
	ErrStoreDisabled  = fmt.Errorf("access log store is disabled")
	ErrRecordNotFound = fmt.Errorf("access record not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
