package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to
// use errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoDumpFile is returned when no dump file is specified.
	ErrNoDumpFile = errors.New("no dump file specified: provide the path to a MediaWiki XML export")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidConcurrency is returned when the download concurrency
	// is not positive. Zero workers would mean no downloads at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrImageBaseURLRequired is returned when --download-images is set
	// without an image base URL to fetch from.
	ErrImageBaseURLRequired = errors.New("image base URL required: --download-images needs --image-base-url or a config file entry")
)
