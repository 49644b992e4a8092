// Package config holds tagscan settings: defaults, the optional .tagscan
// YAML file and validation. Command-line flags are applied by the CLI on
// top of the file values.
package config
