// Package configs embeds the commented configuration template written by
// `amanlaunch config init`.
//
// The template documents every option with its default. Loading it yields
// the same configuration as having no file at all, except for the platform
// specific paths and commands, which stay at their built-in defaults while
// commented out.
package configs

import _ "embed"

// UserConfigTemplate is written to $XDG_CONFIG_HOME/amanlaunch/config.yaml.
//
//go:embed config.example.yaml
var UserConfigTemplate string
