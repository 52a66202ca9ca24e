// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvConfigFile points at the tempest-style INI configuration file
	EnvConfigFile = "WHITEBOX_CONFIG"

	// EnvDBURI overrides [whitebox] db_uri
	EnvDBURI = "WHITEBOX_DB_URI"

	// EnvEnabled overrides [whitebox] whitebox_enabled
	EnvEnabled = "WHITEBOX_ENABLED"

	// EnvDeployMode overrides [whitebox] deploy_mode
	EnvDeployMode = "WHITEBOX_DEPLOY_MODE"

	// EnvLogLevel sets the logrus level (trace, debug, info, warn, error)
	EnvLogLevel = "LOG_LEVEL"
)

// DefaultConfigFile is used when EnvConfigFile is unset
const DefaultConfigFile = "etc/tempest.conf"
