package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, the corpus loader, and the
// cache return these (optionally wrapped) so services can translate them into
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record, corpus file, or version does not exist
// - ErrExpired: cache entry passed its TTL
// - ErrInvalidState: file content is not in the expected shape
// - ErrUnavailable: remote feed or backing service temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
