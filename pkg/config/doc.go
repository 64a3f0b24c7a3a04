// Package config defines the configuration structure for the Sentinel
// compliance service and provides loading, defaulting, and validation.
//
// Configuration is read from a YAML file, merged with defaults, and
// optionally overridden by SENTINEL_* environment variables. Environment
// variables always take precedence over file-based values.
//
// Basic usage:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("sentinel.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.ListenAddress)
package config
