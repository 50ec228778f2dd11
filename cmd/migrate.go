package cmd

import (
	"github.com/spf13/cobra"
)

// migrateCmd applies the schema without collecting.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  `Creates the inventory tables and the availability view and seeds the configured locations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return a.migrate(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
