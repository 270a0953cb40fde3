package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv.
const (
	EnvEndpoint    = "MEDUPLOAD_ENDPOINT"
	EnvTimeout     = "MEDUPLOAD_TIMEOUT"
	EnvLocale      = "MEDUPLOAD_LOCALE"
	EnvProxy       = "MEDUPLOAD_PROXY"
	EnvConcurrency = "MEDUPLOAD_CONCURRENCY"
)

// DefaultEnvFile is the dotenv file read from the current directory.
const DefaultEnvFile = ".env"

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadEnv applies environment overrides to cfg. Variables returned by
// lookup (os.LookupEnv for the process environment) win over the ones in
// envFile. A missing envFile is not an error and an empty one is skipped.
func LoadEnv(cfg *Config, envFile string, lookup LookupFunc) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	return ApplyEnv(cfg, func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

// ApplyEnv applies the MEDUPLOAD_* variables returned by lookup to cfg.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		cfg.Endpoint = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		cfg.Timeout = d
	}
	if v, ok := lookup(EnvLocale); ok && v != "" {
		cfg.Locale = v
	}
	if v, ok := lookup(EnvProxy); ok && v != "" {
		cfg.ProxyAddress = v
	}
	if v, ok := lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvConcurrency, v, err)
		}
		cfg.Concurrency = n
	}
	return nil
}
