package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/whitebox/internal/db"
)

// GetDBCmd returns the db command and its subcommands
func GetDBCmd() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect the nova database",
	}
	dbCmd.PersistentFlags().StringP(flagDatabase, "d", "", "Database name overriding the one in db_uri")

	dbCmd.AddCommand(&cobra.Command{
		Use:   "tables",
		Short: "List the tables of the nova database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			meta, err := reflectDB(cmd)
			if err != nil {
				return err
			}
			for _, name := range meta.TableNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	dbCmd.AddCommand(&cobra.Command{
		Use:   "columns <table>",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := reflectDB(cmd)
			if err != nil {
				return err
			}
			table, ok := meta.Table(args[0])
			if !ok {
				return fmt.Errorf("table %q not found", args[0])
			}
			return printJSON(cmd.OutOrStdout(), table)
		},
	})

	return dbCmd
}

func reflectDB(cmd *cobra.Command) (*db.Metadata, error) {
	database, err := cmd.Flags().GetString(flagDatabase)
	if err != nil {
		return nil, fmt.Errorf("error getting database flag: %w", err)
	}
	handle, meta, err := db.HandleAndMeta(commandContext(cmd), cfg.Whitebox.DBURI, database)
	if err != nil {
		return nil, err
	}
	db.Close(handle)
	return meta, nil
}
