// Package config loads configuration from YAML files, .env files and
// environment variables.
//
// LoadConfig searches the usual locations (cmd/<service>/config.yml,
// config/config.yml, ./config.yml and the matching .env files), then lets
// environment variables override file values. Nested keys are derived from
// underscore-separated names, so ASYNCTIME_TIMING_SLEEP=2s sets
// timing.sleep when loaded with WithEnvPrefix("ASYNCTIME").
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	logger.Init(&cfg.Logging)
package config
