// Package config loads the engine configuration.
//
// A configuration file is YAML or TOML, chosen by extension. Values left
// out of the file keep their defaults, and MAPMERGE_* environment variables
// override both. The result is validated before use.
package config
