package catalog

import "errors"

// Sentinel errors for the catalog module.
var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrNameExists       = errors.New("service name already exists")
	ErrServiceHasEvents = errors.New("service still has event associations")
)
