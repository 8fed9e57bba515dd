package premium

import "errors"

// Errors returned by the package, and by the fetchers, wrapped with context.
// Use errors.Is to test for them.
var (
	// ErrSourceUnavailable reports that an upstream source returned no data or
	// a payload that cannot be read at all. It aborts the run.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedRecord reports a single unreadable observation. Fetchers drop
	// those records and keep going.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrEmptySeries reports that statistics were requested on no data.
	ErrEmptySeries = errors.New("empty series")

	// ErrWriteFailure reports that the report could not be persisted.
	ErrWriteFailure = errors.New("write failure")
)
