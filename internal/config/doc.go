// Package config provides configuration structures and utilities for
// htmlcheck. It defines the checker's site conventions (title prefixes,
// slides viewer, analytics script markers), report preferences, and the
// optional .htmlcheck YAML configuration file.
package config
