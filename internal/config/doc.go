// Package config provides the configuration of medupload: defaults,
// the optional YAML configuration file, environment overrides, and
// validation. Values are applied in increasing priority: defaults,
// file, environment, command-line flags.
package config
