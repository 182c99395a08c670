package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so values like "30s" parse from YAML
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config represents the configuration for the shopmcp service
type Config struct {
	// StoreDomain is the myshopify.com domain of the store
	StoreDomain string `yaml:"store_domain"`

	// APIVersion selects the Admin API version
	APIVersion string `yaml:"api_version"`

	// AccessToken is the Admin API access token; flags and environment
	// variables take precedence over this value
	AccessToken string `yaml:"access_token"`

	// DisabledTools lists tool names removed from the registry
	DisabledTools []string `yaml:"disabled_tools"`

	// MaxPendingBytes caps the transport's accumulation buffer; zero keeps
	// the built-in default
	MaxPendingBytes int `yaml:"max_pending_bytes"`

	// Timeout bounds each upstream API call
	Timeout Duration `yaml:"timeout"`
}

// DefaultConfig returns a configuration with every tool enabled
func DefaultConfig() *Config {
	return &Config{
		APIVersion:    "2025-01",
		DisabledTools: []string{},
		Timeout:       Duration(60 * time.Second),
	}
}

// LoadFile loads configuration from a file. An empty path or a missing file
// yields the defaults.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load loads configuration from an io.Reader
func Load(r io.Reader) (*Config, error) {
	config := DefaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config data: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config YAML: %w", err)
	}

	return config, nil
}

// IsToolDisabled checks if a specific tool name is in the disabled list
func (c *Config) IsToolDisabled(name string) bool {
	for _, disabled := range c.DisabledTools {
		if disabled == name {
			return true
		}
	}
	return false
}
