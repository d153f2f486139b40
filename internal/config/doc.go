// Package config loads, normalizes, and validates the TOML configuration
// for mkvplan: external tool paths, identify-cache settings, and logging.
package config
