package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/whitebox/internal/compute"
	"github.com/celestiaorg/whitebox/internal/config"
	"github.com/celestiaorg/whitebox/internal/constants"
	"github.com/celestiaorg/whitebox/internal/novamanage"
)

// flag names
const (
	flagConfig    = "config"
	flagDatabase  = "database"
	flagUser      = "user"
	flagPassword  = "password"
	flagPort      = "port"
	flagKey       = "key"
	flagName      = "name"
	flagImage     = "image"
	flagFlavor    = "flavor"
	flagWaitUntil = "wait-until"
	flagWait      = "wait"
)

var (
	// configPath holds the --config flag. Empty means WHITEBOX_CONFIG or the default.
	configPath string
	// cfg is loaded by PersistentPreRunE before any subcommand runs
	cfg *config.Config

	okFmt = color.New(color.FgGreen, color.Bold).SprintFunc()

	// newComputeClient and newManager are replaced in tests
	newComputeClient = compute.NewClient
	newManager       = novamanage.NewManager
)

// loadConfig reads the configuration named by --config, falling back to the
// WHITEBOX_CONFIG environment variable.
func loadConfig() error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	return cfg.Validate()
}

// NewRootCmd builds the whitebox command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "whitebox",
		Short: "Whitebox CLI - inspect a compute deployment beyond its API",
		Long: `Whitebox is an operator tool built on the same helpers whitebox tests use:
it runs nova-manage, inspects the nova database, checks SSH access and boots servers.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
	}

	root.PersistentFlags().StringVarP(&configPath, flagConfig, "c", "",
		fmt.Sprintf("Path to the tempest-style config file (env: %s, default: %s)", constants.EnvConfigFile, constants.DefaultConfigFile))

	root.AddCommand(GetNovaManageCmd())
	root.AddCommand(GetDBCmd())
	root.AddCommand(GetSSHCmd())
	root.AddCommand(GetServerCmd())
	return root
}

// Execute runs the root command with os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printJSON pretty prints v to w
func printJSON(w io.Writer, v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(prettyJSON))
	return err
}
