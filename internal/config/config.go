package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"

	envconfig "github.com/celestiaorg/whitebox/config"
	"github.com/celestiaorg/whitebox/internal/constants"
	"github.com/celestiaorg/whitebox/internal/logger"
)

// DeployMode selects how nova-manage and other host-level commands are reached.
type DeployMode string

const (
	// DeployModeDevstackLocal runs commands as local subprocesses.
	DeployModeDevstackLocal DeployMode = "devstack-local"
	// DeployModeDevstackRemote runs commands over SSH against a devstack host.
	DeployModeDevstackRemote DeployMode = "devstack-remote"
	// DeployModeProduction runs commands over SSH against the API host.
	DeployModeProduction DeployMode = "production"
)

// IsLocal reports whether commands run on this machine.
func (m DeployMode) IsLocal() bool {
	return m == DeployModeDevstackLocal
}

// Valid reports whether m is a known deploy mode.
func (m DeployMode) Valid() bool {
	switch m {
	case DeployModeDevstackLocal, DeployModeDevstackRemote, DeployModeProduction:
		return true
	default:
		return false
	}
}

// ComputeConfig is the [compute] section.
type ComputeConfig struct {
	BuildIntervalSeconds int    `ini:"build_interval"`
	BuildTimeoutSeconds  int    `ini:"build_timeout"`
	SSHUser              string `ini:"ssh_user"`
	SSHTimeoutSeconds    int    `ini:"ssh_timeout"`
	ImageRef             string `ini:"image_ref"`
	ImageRefAlt          string `ini:"image_ref_alt"`
	FlavorRef            string `ini:"flavor_ref"`
	FlavorRefAlt         string `ini:"flavor_ref_alt"`
}

// BuildInterval is the delay between server status polls.
func (c ComputeConfig) BuildInterval() time.Duration {
	return time.Duration(c.BuildIntervalSeconds) * time.Second
}

// BuildTimeout bounds how long a server may take to reach a status.
func (c ComputeConfig) BuildTimeout() time.Duration {
	return time.Duration(c.BuildTimeoutSeconds) * time.Second
}

// SSHTimeout bounds a single SSH connection check.
func (c ComputeConfig) SSHTimeout() time.Duration {
	return time.Duration(c.SSHTimeoutSeconds) * time.Second
}

// WhiteboxConfig is the [whitebox] section.
type WhiteboxConfig struct {
	Enabled          bool       `ini:"whitebox_enabled"`
	DBURI            string     `ini:"db_uri"`
	SourceDir        string     `ini:"source_dir"`
	ConfigPath       string     `ini:"config_path"`
	BinDir           string     `ini:"bin_dir"`
	PathToPrivateKey string     `ini:"path_to_private_key"`
	APIHost          string     `ini:"api_host"`
	APIUser          string     `ini:"api_user"`
	APIPasswd        string     `ini:"api_passwd"`
	DeployMode       DeployMode `ini:"deploy_mode"`
}

// IdentityConfig is the [identity] section used to authenticate the compute client.
type IdentityConfig struct {
	URI        string `ini:"uri"`
	Username   string `ini:"username"`
	Password   string `ini:"password"`
	TenantName string `ini:"tenant_name"`
	DomainName string `ini:"domain_name"`
	Region     string `ini:"region"`
}

// Config is the whole whitebox configuration.
type Config struct {
	Compute  ComputeConfig
	Whitebox WhiteboxConfig
	Identity IdentityConfig
}

// Default returns a configuration populated with the documented defaults.
func Default() *Config {
	return &Config{
		Compute: ComputeConfig{
			BuildIntervalSeconds: 10,
			BuildTimeoutSeconds:  400,
			SSHUser:              "root",
			SSHTimeoutSeconds:    300,
			FlavorRef:            "1",
			FlavorRefAlt:         "2",
		},
		Whitebox: WhiteboxConfig{
			SourceDir:  "/opt/stack/nova",
			ConfigPath: "/etc/nova/nova.conf",
			BinDir:     "/usr/local/bin",
			APIHost:    "127.0.0.1",
			DeployMode: DeployModeProduction,
		},
		Identity: IdentityConfig{
			DomainName: "Default",
			Region:     "RegionOne",
		},
	}
}

// Load reads .env (if present), then the INI file named by WHITEBOX_CONFIG, then
// applies environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Failed to load .env file: %v", err)
	}

	path := envconfig.GetEnv(constants.EnvConfigFile, constants.DefaultConfigFile)
	return LoadFile(path)
}

// LoadFile reads a tempest-style INI file and applies environment overrides.
func LoadFile(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg, err := fromINI(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	logger.Debugf("Loaded whitebox configuration from %s", path)
	return cfg, nil
}

// Parse reads configuration from raw INI content.
func Parse(data []byte) (*Config, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return fromINI(f)
}

func fromINI(f *ini.File) (*Config, error) {
	cfg := Default()
	if err := f.Section("compute").MapTo(&cfg.Compute); err != nil {
		return nil, fmt.Errorf("section compute: %w", err)
	}
	if err := f.Section("whitebox").MapTo(&cfg.Whitebox); err != nil {
		return nil, fmt.Errorf("section whitebox: %w", err)
	}
	if err := f.Section("identity").MapTo(&cfg.Identity); err != nil {
		return nil, fmt.Errorf("section identity: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Whitebox.Enabled = envconfig.GetEnvBool(constants.EnvEnabled, c.Whitebox.Enabled)
	c.Whitebox.DBURI = envconfig.GetEnv(constants.EnvDBURI, c.Whitebox.DBURI)
	c.Whitebox.DeployMode = DeployMode(envconfig.GetEnv(constants.EnvDeployMode, string(c.Whitebox.DeployMode)))
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Compute.BuildIntervalSeconds <= 0 {
		return fmt.Errorf("compute.build_interval must be positive")
	}
	if c.Compute.BuildTimeoutSeconds <= 0 {
		return fmt.Errorf("compute.build_timeout must be positive")
	}
	if c.Compute.SSHTimeoutSeconds <= 0 {
		return fmt.Errorf("compute.ssh_timeout must be positive")
	}
	if !c.Whitebox.DeployMode.Valid() {
		return fmt.Errorf("unknown whitebox.deploy_mode %q", c.Whitebox.DeployMode)
	}
	if c.Whitebox.Enabled && c.Whitebox.DBURI == "" {
		return fmt.Errorf("whitebox.db_uri is required when whitebox is enabled")
	}
	return nil
}
