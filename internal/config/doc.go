// Package config loads YAML configuration for the server. A missing file
// yields the built-in defaults; API keys come from the environment, never
// from the file.
package config
