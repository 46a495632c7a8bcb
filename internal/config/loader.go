package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".epubdiff"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .epubdiff configuration file.
// It lists archive pairs for batch comparison and optional display
// overrides.
type File struct {
	// Pairs are the archive pairs to compare in batch mode.
	Pairs []Pair `yaml:"pairs,omitempty"`

	// Display overrides the report display limits when non-zero.
	Display DisplayLimits `yaml:"display,omitempty"`

	// Encoding overrides the assumed text encoding when non-empty.
	Encoding string `yaml:"encoding,omitempty"`
}

// DisplayLimits holds optional overrides for the report display caps.
// Zero values mean "keep the default".
type DisplayLimits struct {
	// ListEntries caps each truncatable path list.
	ListEntries int `yaml:"listEntries,omitempty"`

	// ContentChanges caps the content-diff listing.
	ContentChanges int `yaml:"contentChanges,omitempty"`

	// MarkupDocuments caps how many changed markup documents are validated.
	MarkupDocuments int `yaml:"markupDocuments,omitempty"`

	// MarkupFindings caps validation findings across all documents.
	MarkupFindings int `yaml:"markupFindings,omitempty"`
}

// LoadConfigFile loads the configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this error based on whether the path was explicitly
// specified by the user.
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

// Apply merges the file's settings into the config. Pairs from the file
// are only used when the config has none (positional arguments win), and
// zero-valued overrides are ignored.
func (cf *File) Apply(c *Config) {
	if len(c.Pairs) == 0 {
		c.Pairs = append(c.Pairs, cf.Pairs...)
	}
	if cf.Encoding != "" {
		c.Encoding = cf.Encoding
	}
	if cf.Display.ListEntries > 0 {
		c.MaxListEntries = cf.Display.ListEntries
	}
	if cf.Display.ContentChanges > 0 {
		c.MaxContentChanges = cf.Display.ContentChanges
	}
	if cf.Display.MarkupDocuments > 0 {
		c.MaxMarkupDocuments = cf.Display.MarkupDocuments
	}
	if cf.Display.MarkupFindings > 0 {
		c.MaxMarkupFindings = cf.Display.MarkupFindings
	}
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .epubdiff in the current directory
//  3. Look for .epubdiff in the user's home directory
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
