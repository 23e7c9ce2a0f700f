package rerank

import "errors"

var (
	// ErrHostRequired is returned when a rerank host is not provided.
	ErrHostRequired = errors.New("rerank host required")
)
