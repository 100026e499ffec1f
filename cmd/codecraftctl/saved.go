package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	savedCmd := &cobra.Command{Use: "saved", Short: "Saved review operations"}

	// add
	var notes string
	addCmd := &cobra.Command{
		Use:   "add REVIEW_ID",
		Short: "Bookmark a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			payload := map[string]interface{}{"reviewId": args[0]}
			if notes != "" {
				payload["notes"] = notes
			}
			url := fmt.Sprintf("%s/api/users/%s/saved-reviews", apiFlag, userFlag)
			data, err := doPostJSON(url, payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	addCmd.Flags().StringVarP(&notes, "notes", "n", "", "Optional note stored with the bookmark")
	savedCmd.AddCommand(addCmd)

	// remove
	removeCmd := &cobra.Command{
		Use:   "remove REVIEW_ID",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			url := fmt.Sprintf("%s/api/users/%s/saved-reviews/%s", apiFlag, userFlag, args[0])
			if _, err := doDelete(url); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "removed")
			return nil
		},
	}
	savedCmd.AddCommand(removeCmd)

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks joined with their reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			url := fmt.Sprintf("%s/api/users/%s/saved-reviews", apiFlag, userFlag)
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	savedCmd.AddCommand(listCmd)

	rootCmd.AddCommand(savedCmd)
}
