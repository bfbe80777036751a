package commands

import (
	"fmt" // Printing

	"finance_tracker/internal/db" // Schema migration

	"github.com/spf13/cobra" // CLI framework
)

// newMigrateCommand creates the "migrate" command
func newMigrateCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deps.OpenDB()
			if err != nil {
				return err
			}
			if err := db.Migrate(store); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}
