package cmd

import (
	"video-catalog/core/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the database schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.log.Sync()

		models := catalogModels()
		if err := database.Migrate(rt.db, models...); err != nil {
			return err
		}
		rt.log.Info("Schema migrated", zap.Int("models", len(models)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
