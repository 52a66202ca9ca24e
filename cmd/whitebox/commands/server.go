package commands

import (
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/whitebox/internal/datautils"
)

// serverOutput represents the filtered output for a server
type serverOutput struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// GetServerCmd returns the server command and its subcommands
func GetServerCmd() *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Boot and delete servers through the compute API",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Boot a server from the configured image and flavor",
		Args:  cobra.NoArgs,
		RunE:  runServerCreate,
	}
	createCmd.Flags().StringP(flagName, "n", "", "Server name (default: random)")
	createCmd.Flags().StringP(flagImage, "i", "", "Image ref (default: [compute] image_ref)")
	createCmd.Flags().StringP(flagFlavor, "f", "", "Flavor ref (default: [compute] flavor_ref)")
	createCmd.Flags().StringP(flagWaitUntil, "w", "", "Wait for this status, e.g. ACTIVE")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a server",
		Args:  cobra.ExactArgs(1),
		RunE:  runServerDelete,
	}
	deleteCmd.Flags().Bool(flagWait, false, "Wait until the server is gone")

	serverCmd.AddCommand(createCmd)
	serverCmd.AddCommand(deleteCmd)
	return serverCmd
}

func runServerCreate(cmd *cobra.Command, _ []string) error {
	name, err := cmd.Flags().GetString(flagName)
	if err != nil {
		return fmt.Errorf("error getting name flag: %w", err)
	}
	image, err := cmd.Flags().GetString(flagImage)
	if err != nil {
		return fmt.Errorf("error getting image flag: %w", err)
	}
	flavor, err := cmd.Flags().GetString(flagFlavor)
	if err != nil {
		return fmt.Errorf("error getting flavor flag: %w", err)
	}
	waitUntil, err := cmd.Flags().GetString(flagWaitUntil)
	if err != nil {
		return fmt.Errorf("error getting wait-until flag: %w", err)
	}

	if name == "" {
		name = datautils.RandName("whitebox-instance")
	}
	if image == "" {
		image = cfg.Compute.ImageRef
	}
	if flavor == "" {
		flavor = cfg.Compute.FlavorRef
	}

	ctx := commandContext(cmd)
	client, err := newComputeClient(ctx, cfg.Identity)
	if err != nil {
		return err
	}
	svc := client.Servers()

	server, err := svc.Create(ctx, servers.CreateOpts{
		Name:      name,
		ImageRef:  image,
		FlavorRef: flavor,
	})
	if err != nil {
		return err
	}
	if waitUntil != "" {
		if _, err := svc.WaitForStatus(ctx, server.ID, waitUntil, cfg.Compute.BuildInterval(), cfg.Compute.BuildTimeout()); err != nil {
			return err
		}
	}

	server, err = svc.Get(ctx, server.ID)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), serverOutput{
		ID:     server.ID,
		Name:   server.Name,
		Status: server.Status,
	})
}

func runServerDelete(cmd *cobra.Command, args []string) error {
	wait, err := cmd.Flags().GetBool(flagWait)
	if err != nil {
		return fmt.Errorf("error getting wait flag: %w", err)
	}

	ctx := commandContext(cmd)
	client, err := newComputeClient(ctx, cfg.Identity)
	if err != nil {
		return err
	}
	svc := client.Servers()

	if err := svc.Delete(ctx, args[0]); err != nil {
		return err
	}
	if wait {
		if err := svc.WaitForDeletion(ctx, args[0], cfg.Compute.BuildInterval(), cfg.Compute.BuildTimeout()); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Server %s deleted\n", okFmt("OK"), args[0])
	return nil
}
