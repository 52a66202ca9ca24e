package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/whitebox/internal/ssh"
)

// GetSSHCmd returns the ssh command and its subcommands
func GetSSHCmd() *cobra.Command {
	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Check SSH access to hosts and guests",
	}

	checkCmd := &cobra.Command{
		Use:   "check <host>",
		Short: "Verify that host accepts an SSH login within ssh_timeout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := cmd.Flags().GetString(flagUser)
			if err != nil {
				return fmt.Errorf("error getting user flag: %w", err)
			}
			if user == "" {
				user = cfg.Compute.SSHUser
			}
			password, err := cmd.Flags().GetString(flagPassword)
			if err != nil {
				return fmt.Errorf("error getting password flag: %w", err)
			}
			port, err := cmd.Flags().GetString(flagPort)
			if err != nil {
				return fmt.Errorf("error getting port flag: %w", err)
			}
			key, err := cmd.Flags().GetString(flagKey)
			if err != nil {
				return fmt.Errorf("error getting key flag: %w", err)
			}

			client, err := ssh.Connect(commandContext(cmd), args[0], user, password, cfg.Compute.SSHTimeout(),
				ssh.WithPort(port), ssh.WithPrivateKeyFile(key))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s SSH login to %s as %s succeeded\n", okFmt("OK"), client.Addr(), user)
			return nil
		},
	}
	checkCmd.Flags().StringP(flagUser, "u", "", "Login user (default: [compute] ssh_user)")
	checkCmd.Flags().StringP(flagPassword, "p", "", "Login password")
	checkCmd.Flags().String(flagPort, ssh.DefaultPort, "SSH port")
	checkCmd.Flags().StringP(flagKey, "k", "", "Path to a private key")

	sshCmd.AddCommand(checkCmd)
	return sshCmd
}
