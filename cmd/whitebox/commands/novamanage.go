package commands

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

// GetNovaManageCmd returns the nova-manage command
func GetNovaManageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nova-manage <category> <action> [params...]",
		Short: "Run nova-manage locally or on the API host, depending on deploy_mode",
		Example: `  whitebox nova-manage db version
  whitebox nova-manage service disable --host compute-1 --service nova-compute --reason "maintenance window"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// each param stays one argument after the shell split
			params := shellquote.Join(args[2:]...)
			manager := newManager(cfg)
			result, err := manager.Run(commandContext(cmd), args[0], args[1], params)
			if result != nil {
				fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
				fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
			}
			if err != nil {
				return fmt.Errorf("error running nova-manage: %w", err)
			}
			return nil
		},
	}
	// everything after the action belongs to nova-manage
	cmd.Flags().SetInterspersed(false)
	return cmd
}
