// Package config loads, normalizes, and validates flowlist configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FLOWLIST_API_KEY and OPENROUTER_API_KEY. A missing API key is not a
// validation error: the completion client reports it per call so offline
// commands (show, toggle, export) keep working.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
