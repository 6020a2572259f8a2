package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskmgr",
		Short: "Multi-role task scheduler API",
		Long: `taskmgr serves the task scheduler HTTP API.

Users manage their own tasks; admins manage users. Sessions use
short-lived access tokens and longer-lived refresh tokens carried in
HttpOnly cookies or a bearer header.

Configuration comes from the environment (JWT_SECRET is required).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		createAdminCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
