// Package config loads modmerge configuration.
// Sources are layered: embedded defaults, then a TOML config file, then
// MODMERGE_ environment variables.
package config
