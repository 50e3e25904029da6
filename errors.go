package main

import "errors"

// Error taxonomy. Per-line parse failures are recovered locally by the
// ingestion path (skip and count); the other two surface to the caller
// with no partial effect on dataset state.
var (
	ErrMalformedRecord      = errors.New("malformed record")
	ErrInvalidFilterRequest = errors.New("invalid filter request")
	ErrEmptySelection       = errors.New("empty selection")
)
