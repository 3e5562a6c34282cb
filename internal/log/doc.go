// Package log provides site-aware logging built on top of the standard
// slog package.
//
// Checker log output is full of filesystem paths. Printed absolutely they
// bury the interesting part of every line under the site root prefix, so
// this package extends slog to provide:
//   - Automatic shortening of site-rooted paths to site-relative form
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Usage
//
//	// Create a site-aware logger
//	logger := log.NewSiteLogger(os.Stderr, "/var/www/site", true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("checking document",
//	    "path", "/var/www/site/Recordings/index.html", // logged as Recordings/index.html
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
