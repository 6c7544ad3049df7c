package main

import (
	"sakkanal_backend/migrations"
	"sakkanal_backend/platform/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long:  "Applies every embedded goose migration that has not run yet.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.RunMigrations(ctx, pool, migrations.FS); err != nil {
			return err
		}

		log.Info("all migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
