/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactively set up Atlassian credentials",
	Long: `
Prompt for Confluence and JIRA credentials and write them to the env file (default: .env).
Tokens are read with terminal echo off.  Values already known, from the environment or an
existing env file, show up as defaults; hit enter to keep them.
`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigure()
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure() error {
	existing, err := loadCredentials()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	creds := credentials{}

	if creds.ConfluenceURL, err = prompt(reader, "Confluence URL (e.g. https://your-org.atlassian.net)", existing.ConfluenceURL); err != nil {
		return err
	}
	if creds.ConfluenceUsername, err = prompt(reader, "Confluence username (email)", existing.ConfluenceUsername); err != nil {
		return err
	}
	if creds.ConfluenceToken, err = promptSecret("Confluence API token", existing.ConfluenceToken); err != nil {
		return err
	}

	if creds.JiraURL, err = prompt(reader, "JIRA URL (e.g. https://your-org.atlassian.net)", existing.JiraURL); err != nil {
		return err
	}
	if creds.JiraUsername, err = prompt(reader, "JIRA username (email)", existing.JiraUsername); err != nil {
		return err
	}
	if creds.JiraToken, err = promptSecret("JIRA API token", existing.JiraToken); err != nil {
		return err
	}

	if creds.RedisURL, err = prompt(reader, "Redis URL for response caching (optional)", existing.RedisURL); err != nil {
		return err
	}

	if err := writeEnvFile(EnvFile, creds); err != nil {
		return err
	}

	fmt.Printf("Credentials saved to %s.  Keep that file out of version control.\n", EnvFile)
	return nil
}

func prompt(reader *bufio.Reader, label, current string) (string, error) {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("cmd: couldn't read input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}

func promptSecret(label, current string) (string, error) {
	suffix := ""
	if current != "" {
		suffix = " [enter keeps the current one]"
	}
	fmt.Printf("%s (input hidden)%s: ", label, suffix)

	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("cmd: couldn't read token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return current, nil
	}
	return token, nil
}

func writeEnvFile(path string, creds credentials) error {
	var b strings.Builder

	b.WriteString("# atlassian-rag credentials.\n")
	writeEnvVar(&b, "CONFLUENCE_URL", creds.ConfluenceURL)
	writeEnvVar(&b, "CONFLUENCE_USERNAME", creds.ConfluenceUsername)
	writeEnvVar(&b, "CONFLUENCE_API_TOKEN", creds.ConfluenceToken)
	writeEnvVar(&b, "JIRA_URL", creds.JiraURL)
	writeEnvVar(&b, "JIRA_USERNAME", creds.JiraUsername)
	writeEnvVar(&b, "JIRA_API_TOKEN", creds.JiraToken)
	writeEnvVar(&b, "REDIS_URL", creds.RedisURL)

	// 0600: it holds tokens.
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("cmd: couldn't write %s: %w", path, err)
	}
	return nil
}

func writeEnvVar(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s=%s\n", key, value)
}
