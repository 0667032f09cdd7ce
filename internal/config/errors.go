package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// They are sentinels so callers can use errors.Is.
var (
	// ErrNoSeed is returned when no seed URL is configured.
	ErrNoSeed = errors.New("no seed URL specified")

	// ErrEmptyOutputDir is returned when the mirror has nowhere to go.
	ErrEmptyOutputDir = errors.New("output directory must not be empty")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidTimeout is returned when the timeout is negative.
	// Use 0 to disable the client timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrUnknownReportFormat is returned for a report format other than
	// text, markdown or json.
	ErrUnknownReportFormat = errors.New("unknown report format: use text, markdown or json")

	// ErrEmptyDBDir is returned when the journal is enabled without a directory.
	ErrEmptyDBDir = errors.New("database directory must not be empty when the journal is enabled")
)
