package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrRequestFailed covers every way a catalog page can fail to arrive:
	// transport errors, unexpected status codes and malformed bodies
	ErrRequestFailed = errors.New("catalog request failed")

	// ErrServerOffline indicates the catalog server is unreachable
	ErrServerOffline = errors.New("catalog server is unreachable")

	// ErrUnknownList indicates the requested list is not configured
	ErrUnknownList = errors.New("unknown catalog list")

	// ErrFilterUnsupported indicates the list has no filtered endpoint
	ErrFilterUnsupported = errors.New("list does not support genre filtering")

	// ErrInvalidPage indicates a page number below 1
	ErrInvalidPage = errors.New("page must be a positive integer")
)
