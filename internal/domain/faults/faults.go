package faults

import "errors"

// Closed set of failure kinds the services return. Handlers branch on
// these with errors.Is to pick the outgoing HTTP status - nothing gets
// collapsed into a generic error on the way up.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotInitialized = errors.New("index not initialized")
	ErrNotFound       = errors.New("not found")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrUpstream       = errors.New("upstream provider failure")
)
