// Package config loads the linter configuration: a YAML file layered under
// environment overrides, with a .env file picked up first when present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jankguard/internal/diag"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "jankguard.yaml"

type Config struct {
	Rules struct {
		// Disabled lists taxonomy codes to skip.
		Disabled []string `yaml:"disabled"`
		// Severity overrides the default tier per code, e.g.
		// JG1002: warning.
		Severity map[string]string `yaml:"severity"`
	} `yaml:"rules"`

	Classifier struct {
		Writes      []string `yaml:"writes"`
		BulkReads   []string `yaml:"bulk_reads"`
		SingleReads []string `yaml:"single_reads"`
		Receivers   []string `yaml:"receivers"`
		// Mitigations replaces the recognized frame-yield calls when
		// set; the first entry is what fixes insert.
		Mitigations []string `yaml:"mitigations"`
	} `yaml:"classifier"`

	// Ignore adds directory names the crawler skips.
	Ignore []string `yaml:"ignore"`
}

// Load reads the configuration. A missing file yields the zero config (all
// defaults) rather than an error; a present but malformed file is an error.
func Load(path string) (*Config, error) {
	// Load .env if exists
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("JANKGUARD_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Enabled reports whether a rule code is active.
func (c *Config) Enabled(code diag.Code) bool {
	for _, d := range c.Rules.Disabled {
		if d == string(code) {
			return false
		}
	}
	return true
}

// SeverityFor resolves the effective severity of a code: the configured
// override when valid, the registry default otherwise.
func (c *Config) SeverityFor(code diag.Code) diag.Severity {
	if raw, ok := c.Rules.Severity[string(code)]; ok {
		if sev, valid := diag.ParseSeverity(raw); valid {
			return sev
		}
	}
	return diag.DefinitionFor(code).DefaultSeverity
}

// Mitigations returns the configured mitigation names, or nil when the
// built-in defaults should apply.
func (c *Config) Mitigations() []string {
	return c.Classifier.Mitigations
}
