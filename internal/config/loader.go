package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name searched in the
// current and home directories.
const DefaultConfigFile = ".medupload"

// xdgConfigFile is the file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// File represents the structure of the YAML configuration file.
// Zero values leave the corresponding Config field untouched.
type File struct {
	Endpoint       string            `yaml:"endpoint,omitempty"`
	Timeout        string            `yaml:"timeout,omitempty"`
	Locale         string            `yaml:"locale,omitempty"`
	Proxy          string            `yaml:"proxy,omitempty"`
	UserAgent      string            `yaml:"userAgent,omitempty"`
	Headers        map[string]string `yaml:"headers,omitempty"`
	Concurrency    int               `yaml:"concurrency,omitempty"`
	MaxPreviewSize int64             `yaml:"maxPreviewSize,omitempty"`
}

// LoadConfigFile reads a YAML configuration file.
// It returns ErrConfigNotFound when the file does not exist.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// Apply copies the non-zero values of f into cfg.
func (f *File) Apply(cfg *Config) error {
	if f.Endpoint != "" {
		cfg.Endpoint = f.Endpoint
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", f.Timeout, err)
		}
		cfg.Timeout = d
	}
	if f.Locale != "" {
		cfg.Locale = f.Locale
	}
	if f.Proxy != "" {
		cfg.ProxyAddress = f.Proxy
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if len(f.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(f.Headers))
		}
		for k, v := range f.Headers {
			cfg.Headers[k] = v
		}
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.MaxPreviewSize != 0 {
		cfg.MaxPreviewSize = f.MaxPreviewSize
	}
	return nil
}

// FindConfigFile searches for the configuration file in this order:
//  1. configPath, when given
//  2. .medupload in the current directory
//  3. .medupload in the home directory
//  4. config.yaml in the XDG config directory
//
// It returns an empty string when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
