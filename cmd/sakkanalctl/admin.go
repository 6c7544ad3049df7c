package main

import (
	"context"
	"fmt"

	"sakkanal_backend/internal/auth/repository"
	"sakkanal_backend/internal/auth/service"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/db"
	"sakkanal_backend/platform/logger"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage dashboard administrators",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin or reset an existing one",
	Long:  "Creates an admin account. An existing account with the same e-mail gets the new password and the admin role.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		user, err := createAdmin(ctx, pool, cfg, log, adminEmail, adminPassword)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "admin %s ready (id %s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "admin e-mail address")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (min 10 characters)")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")
	adminCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(adminCmd)
}

func createAdmin(ctx context.Context, pool db.Pool, cfg config.AuthServiceConfig, log *logger.Logger, email, password string) (repository.AdminUser, error) {
	svc := service.New(repository.New(pool), cfg, log)
	user, err := svc.CreateAdmin(ctx, email, password)
	if err != nil {
		return repository.AdminUser{}, fmt.Errorf("create admin: %w", err)
	}
	log.Info("admin account upserted", "email", user.Email)
	return user, nil
}
