package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrInvalidID indicates an entry id that is not a positive integer
	ErrInvalidID = errors.New("invalid catalog id")

	// ErrSnapshotCorrupt indicates a snapshot file exists but cannot be parsed
	ErrSnapshotCorrupt = errors.New("catalog snapshot is corrupt")

	// ErrSnapshotVersion indicates a snapshot written by a newer format version
	ErrSnapshotVersion = errors.New("unsupported catalog snapshot version")

	// ErrUnknownLanguage indicates a language code outside the supported set
	ErrUnknownLanguage = errors.New("unknown store language")

	// ErrSourceOffline indicates the remote listing source is unreachable
	ErrSourceOffline = errors.New("listing source is unreachable")

	// ErrRateLimited indicates the remote listing source rejected the request rate
	ErrRateLimited = errors.New("listing source rate limit exceeded")
)
