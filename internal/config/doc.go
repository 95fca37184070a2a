// Package config loads and validates execlink configuration.
//
// Configuration is a TOML file, by default ~/.config/execlink/config.toml,
// with sections for paths, the record source, matching weights and
// thresholds, the record sink, notifications, review behavior, and logging.
// Load applies defaults, expands ~ in path fields, normalizes values, and
// validates before returning.
package config
