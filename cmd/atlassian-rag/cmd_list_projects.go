/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
)

var listProjectsUsage = strings.TrimSpace(`
If you want to find out what projects your JIRA instance has, use this command.
`)

var listProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Print list of JIRA projects",
	Long:  listProjectsUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := loadCredentials()
		if err != nil {
			return err
		}
		cl, err := jiraClient(creds)
		if err != nil {
			return err
		}
		defer cl.Close()
		api := cl.jira

		log.Printf("Listing JIRA projects on %s...\n", api.BaseURI.Host)
		projects, err := api.ListProjects(cmd.Context())
		if err != nil {
			return fmt.Errorf("cmd: couldn't list JIRA projects: %w", err)
		}

		log.Printf("Found %d projects on '%s'.\n", len(projects), api.BaseURI.Host)

		// ListProjects keeps the server's ordering, which is by key.
		fmt.Printf("projects:\n")
		for _, project := range projects {
			fmt.Printf("  - %s: %s\n", project.Key, project.Name)
		}

		return nil
	},
}

func init() {
	listCmd.AddCommand(listProjectsCmd)
}
