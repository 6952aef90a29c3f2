// Package config provides configuration structures and utilities for
// wikivault. It defines the conversion options populated from CLI flags
// and the optional .wikivault configuration file.
package config
