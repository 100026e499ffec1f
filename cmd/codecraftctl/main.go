package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag   string
	tokenFlag string
	userFlag  string
	rootCmd   = &cobra.Command{
		Use:   "codecraftctl",
		Short: "CLI client for the CodeCraft review service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Review service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "", "Bearer token (e.g. dev:<identity>[:<email>])")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Identity ID used in request paths")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// requireUser validates the shared --user flag for path-scoped commands.
func requireUser() error {
	if userFlag == "" {
		return fmt.Errorf("--user required")
	}
	return nil
}
