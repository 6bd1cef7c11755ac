/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

var listSpacesUsage = strings.TrimSpace(`
If you want to find out what spaces your Confluence wiki has, use this command.
`)

var IncludePersonal bool

var listSpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Print list of Confluence spaces",
	Long:  listSpacesUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := loadCredentials()
		if err != nil {
			return err
		}
		cl, err := confluenceClient(creds)
		if err != nil {
			return err
		}
		defer cl.Close()
		api := cl.confluence

		// list all spaces:
		log.Printf("Listing Confluence spaces on %s...\n", api.BaseURI.Host)
		spacesRemote, err := api.ListAllSpaces(cmd.Context(), IncludePersonal)
		if err != nil {
			return fmt.Errorf("cmd: couldn't list Confluence spaces: %w", err)
		}

		log.Printf("Found %d spaces on '%s'.\n", len(spacesRemote), api.BaseURI.Host)

		spaceKeys := maps.Keys(spacesRemote)
		sort.Strings(spaceKeys)

		fmt.Printf("spaces:\n")
		for _, spaceKey := range spaceKeys {
			if s, ok := spacesRemote[spaceKey]; ok {
				fmt.Printf("  - %s: %s\n", spaceKey, s.Name)
			}
		}

		return nil
	},
}

func init() {
	listCmd.AddCommand(listSpacesCmd)

	listSpacesCmd.Flags().BoolVar(&IncludePersonal, "include-personal-spaces", false, "list individuals' personal spaces")
}
