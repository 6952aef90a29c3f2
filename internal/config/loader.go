package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".wikivault"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file format. Every field is optional;
// CLI flags take precedence over file values.
type File struct {
	// OutputDir is the default vault directory.
	OutputDir string `yaml:"output_dir"`

	// ImageDir is the vault-relative image directory.
	ImageDir string `yaml:"image_dir"`

	// ImageBaseURL is the wiki's file endpoint for image downloads.
	ImageBaseURL string `yaml:"image_base_url"`

	// SkipRedirects excludes redirect pages from the vault.
	SkipRedirects bool `yaml:"skip_redirects"`

	// DownloadImages enables image fetching.
	DownloadImages bool `yaml:"download_images"`

	// Concurrency bounds simultaneous image downloads.
	Concurrency int `yaml:"concurrency"`

	// KnownInfoboxes lists template names treated as infoboxes in
	// addition to names starting with "infobox".
	KnownInfoboxes []string `yaml:"known_infoboxes"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this based on whether the path was explicitly given by
// the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply overlays file values onto a Config. Only fields the file
// actually sets are copied; flag-provided values are handled by the
// caller, which applies flags after the file.
func (f *File) Apply(c *Config) {
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.ImageDir != "" {
		c.ImageDir = f.ImageDir
	}
	if f.ImageBaseURL != "" {
		c.ImageBaseURL = f.ImageBaseURL
	}
	if f.SkipRedirects {
		c.SkipRedirects = true
	}
	if f.DownloadImages {
		c.DownloadImages = true
	}
	if f.Concurrency > 0 {
		c.Concurrency = f.Concurrency
	}
	if len(f.KnownInfoboxes) > 0 {
		c.KnownInfoboxes = f.KnownInfoboxes
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .wikivault in the current directory
// 3. Look for .wikivault in the user's home directory
//
// Returns the path to the configuration file if found, or empty string
// if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
