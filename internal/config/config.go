package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultOutputDir is where the vault is written when --output is
	// not given. A visible subdirectory of the working directory keeps
	// the result easy to find and safe to delete.
	DefaultOutputDir = "vault"

	// DefaultImageDir is the vault-relative directory image embeds
	// point at. Kept short because it appears in every embed link.
	DefaultImageDir = "images"

	// DefaultConcurrency bounds simultaneous image downloads. Four is
	// polite to a wiki's file endpoint while still overlapping network
	// latency.
	DefaultConcurrency = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "wikivault"
)

// defaultKnownInfoboxes lists the infobox template names recognized
// when the config file does not provide its own list. Any template
// whose name starts with "infobox" is always recognized; this list
// covers wikis that name the template after the subject instead.
var defaultKnownInfoboxes = []string{
	"character",
	"location",
	"event",
	"item",
	"organization",
}

// Config holds all configuration options for a conversion run.
// This struct is populated from CLI flags and the optional config file,
// then passed through the application via dependency injection rather
// than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ConvertConfig, FetchConfig) for simplicity. The number of
// options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// DumpPath is the MediaWiki XML export to convert.
	DumpPath string

	// OutputDir is the vault directory Markdown documents are written to.
	// It is created if it does not exist.
	OutputDir string

	// ImageDir is the vault-relative directory image embeds reference.
	// Image links in converted pages always use this prefix whether or
	// not the files are actually downloaded.
	ImageDir string

	// SkipRedirects excludes redirect pages from the vault entirely.
	// When false, each redirect becomes a one-line pointer document.
	SkipRedirects bool

	// DownloadImages enables fetching referenced image files from the
	// source wiki. Requires ImageBaseURL.
	DownloadImages bool

	// ImageBaseURL is the wiki's file endpoint, typically the
	// Special:FilePath URL, e.g. https://wiki.example.org/wiki/Special:FilePath.
	ImageBaseURL string

	// Concurrency bounds simultaneous image downloads. Page conversion
	// itself is sequential; dump order determines vault order.
	Concurrency int

	// KnownInfoboxes lists template names treated as infoboxes in
	// addition to any template whose name starts with "infobox".
	KnownInfoboxes []string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .wikivault in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// DBDir is the directory path for storing the SQLite run database.
	// Defaults to the XDG data directory (~/.local/share/wikivault on Linux).
	DBDir string

	// SaveToDB indicates whether to record the run in the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero. This also serves
// as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		OutputDir:      DefaultOutputDir,
		ImageDir:       DefaultImageDir,
		Concurrency:    DefaultConcurrency,
		KnownInfoboxes: defaultKnownInfoboxes,
		DBDir:          XDGDataDir(),
		SaveToDB:       true,
	}
}

// XDGDataDir returns the XDG data directory for wikivault.
// On Linux: ~/.local/share/wikivault
// On macOS: ~/Library/Application Support/wikivault
// On Windows: %LOCALAPPDATA%\wikivault
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wikivault.
// On Linux: ~/.config/wikivault
// On macOS: ~/Library/Application Support/wikivault
// On Windows: %APPDATA%\wikivault
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before the dump is opened.
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.DumpPath == "" {
		return ErrNoDumpFile
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.DownloadImages && c.ImageBaseURL == "" {
		return ErrImageBaseURLRequired
	}
	return nil
}
