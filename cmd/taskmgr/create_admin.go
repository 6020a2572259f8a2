package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/config"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
)

// createAdminCmd writes an admin straight to the store. It is the operator
// path for the first admin and needs no creation secret.
func createAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store := cfg.LoadDatabase()
			defer store.Close()

			// no tokens are issued here
			svc := service.New(store.IdentityStore(), store.TaskStore(), nil, nil, service.PasswordModeProduction)
			admin, err := svc.CreateAdmin(service.RegistrationRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Printf("created admin %s (%s)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Admin display name")
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	for _, flag := range []string{"name", "email", "password"} {
		_ = cmd.MarkFlagRequired(flag)
	}

	return cmd
}
