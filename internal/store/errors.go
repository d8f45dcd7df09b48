package store

import "errors"

// ErrNotFound indicates the referenced store does not exist in the registry.
var ErrNotFound = errors.New("store not found")

// ErrEngineNotImplemented indicates a reserved engine with no provisioning
// strategy yet. Medusa is an extension point, not a partial implementation.
var ErrEngineNotImplemented = errors.New("medusa engine is not yet implemented, use woocommerce")
