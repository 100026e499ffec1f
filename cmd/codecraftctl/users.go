package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "User operations"}

	// upsert
	var email string
	upsertCmd := &cobra.Command{
		Use:   "upsert",
		Short: "Upsert the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{}
			if email != "" {
				payload["email"] = email
			}
			url := fmt.Sprintf("%s/api/users", apiFlag)
			data, err := doPostJSON(url, payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	upsertCmd.Flags().StringVarP(&email, "email", "e", "", "Override the email asserted by the token")
	usersCmd.AddCommand(upsertCmd)

	rootCmd.AddCommand(usersCmd)
}
