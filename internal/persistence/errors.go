package persistence

import "errors"

// ErrNotConfigured is returned by health checks for backends that were never configured.
var ErrNotConfigured = errors.New("backend not configured")
