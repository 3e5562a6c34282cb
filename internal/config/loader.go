package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".htmlcheck"

// File is the YAML configuration file layout.
type File struct {
	// SiteRoot overrides the directory site-root-relative URLs resolve
	// against. Relative values are resolved against the file's own location
	// by the caller.
	SiteRoot string `yaml:"site_root"`

	// EXIFAudit enables the image EXIF audit for every run.
	EXIFAudit bool `yaml:"exif_audit"`

	// Site overrides individual site conventions. Empty fields keep their
	// defaults.
	Site SiteConventions `yaml:"site"`
}

// LoadConfigFile loads a configuration file from the given path.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that matters based on whether the path was explicitly requested.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
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

// Apply merges the file's settings into the config. Only non-zero fields
// override.
func (f *File) Apply(cfg *Config) {
	if f.SiteRoot != "" {
		cfg.SiteRoot = f.SiteRoot
	}
	if f.EXIFAudit {
		cfg.EXIFAudit = true
	}
	if f.Site.SlidesPrefix != "" {
		cfg.Site.SlidesPrefix = f.Site.SlidesPrefix
	}
	if f.Site.SlidesTarget != "" {
		cfg.Site.SlidesTarget = f.Site.SlidesTarget
	}
	if f.Site.AnalyticsMarker != "" {
		cfg.Site.AnalyticsMarker = f.Site.AnalyticsMarker
	}
	if f.Site.AnalyticsVersion != "" {
		cfg.Site.AnalyticsVersion = f.Site.AnalyticsVersion
	}
	if f.Site.IndexSpanPrefix != "" {
		cfg.Site.IndexSpanPrefix = f.Site.IndexSpanPrefix
	}
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .htmlcheck in the current directory
//  3. Look for .htmlcheck in the user's home directory
//
// Returns the path to the configuration file if found, or empty string.
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
