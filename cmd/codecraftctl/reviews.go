package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codecraft-dev/codecraft-server/internal/github"
	"github.com/codecraft-dev/codecraft-server/internal/model"
)

func init() {
	reviewsCmd := &cobra.Command{Use: "reviews", Short: "Review operations"}

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the user's reviews, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			url := fmt.Sprintf("%s/api/users/%s/reviews", apiFlag, userFlag)
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	reviewsCmd.AddCommand(listCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get REVIEW_ID",
		Short: "Get one review with bookmark state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			url := fmt.Sprintf("%s/api/users/%s/reviews/%s", apiFlag, userFlag, args[0])
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	reviewsCmd.AddCommand(getCmd)

	// analyze: resolve repo metadata on GitHub, then post the payload file
	var payloadPath, githubToken string
	analyzeCmd := &cobra.Command{
		Use:   "analyze OWNER/NAME",
		Short: "Store an analysis payload for a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			if payloadPath == "" {
				return fmt.Errorf("--payload required")
			}

			raw, err := os.ReadFile(payloadPath)
			if err != nil {
				return err
			}
			var payload model.ReviewPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("invalid payload file: %w", err)
			}

			gh := github.NewClient("", githubToken)
			repo, err := gh.GetRepository(context.Background(), args[0])
			if err != nil {
				return err
			}

			url := fmt.Sprintf("%s/api/users/%s/reviews", apiFlag, userFlag)
			data, err := doPostJSON(url, map[string]interface{}{
				"repoName": repo.FullName,
				"repoUrl":  repo.HTMLURL,
				"payload":  payload,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	analyzeCmd.Flags().StringVarP(&payloadPath, "payload", "p", "", "Path to an analysis payload JSON file (required)")
	analyzeCmd.Flags().StringVar(&githubToken, "github-token", os.Getenv("GITHUB_TOKEN"), "GitHub API token")
	_ = analyzeCmd.MarkFlagRequired("payload")
	reviewsCmd.AddCommand(analyzeCmd)

	rootCmd.AddCommand(reviewsCmd)

	// stats is a top-level command
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the user's dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			url := fmt.Sprintf("%s/api/users/%s/stats", apiFlag, userFlag)
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(statsCmd)
}
