/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.  Credentials
are only reported as present or absent; their values never get printed.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Note, you can only talk about persistent flags here.  Command-specific ones won't be
		// visible.
		fmt.Printf("Dump current config state:\n\n")

		fmt.Printf("  Config file: %s\n", Config)
		fmt.Printf("  Debug: %v\n", Debug)
		fmt.Println()
		fmt.Printf("  Parsed YAML:\n%#v\n", ParsedConfig)
		fmt.Println()
		fmt.Printf("  OutputDir: %s\n", OutputDir)
		fmt.Printf("  EnvFile: %s\n", EnvFile)
		fmt.Printf("  Format: %s\n", Format)
		fmt.Printf("  WithVCR: %v\n", WithVCR)
		fmt.Printf("  IncludeComments: %v\n", IncludeComments)
		fmt.Printf("  IncludeAttachments: %v\n", IncludeAttachments)
		fmt.Printf("  IncludeChangelog: %v\n", IncludeChangelog)
		fmt.Printf("  RateLimit: %v req/s, burst %d\n", RateLimit, RateBurst)
		fmt.Printf("  StoryPointsField: %s\n", StoryPointsField)
		fmt.Println()

		creds, err := loadCredentials()
		if err != nil {
			return err
		}
		fmt.Printf("  CONFLUENCE_URL: %s\n", creds.ConfluenceURL)
		fmt.Printf("  CONFLUENCE_USERNAME: %s\n", creds.ConfluenceUsername)
		fmt.Printf("  CONFLUENCE_API_TOKEN: %s\n", presence(creds.ConfluenceToken))
		fmt.Printf("  JIRA_URL: %s\n", creds.JiraURL)
		fmt.Printf("  JIRA_USERNAME: %s\n", creds.JiraUsername)
		fmt.Printf("  JIRA_API_TOKEN: %s\n", presence(creds.JiraToken))
		fmt.Printf("  REDIS_URL: %s\n", presence(creds.RedisURL))

		return nil
	},
}

func presence(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "(set)"
}

func init() {
	configCmd.AddCommand(showCmd)
}
