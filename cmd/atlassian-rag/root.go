/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	// Store the result of binding cobra flags
	Config       string
	ConfigActual string
	Debug        bool

	OutputDir string
	EnvFile   string
	Format    string
	WithVCR   bool

	IncludeComments    bool
	IncludeAttachments bool
	IncludeChangelog   bool

	RateLimit float64
	RateBurst int

	StoryPointsField string

	ParsedConfig YamlConfig
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "atlassian-rag",
	Short: "Extract Confluence and JIRA content for RAG pipelines",
	Long: `
Pull pages out of Confluence and issues out of JIRA, scrub the markup, and leave behind clean CSV,
JSONL, PDF and Markdown files that a retrieval pipeline can ingest without further ceremony.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// You can bind cobra and viper in a few locations, but PersistentPreRunE on the root command works well
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("atlassian-rag: failed to initialise config: %w", err)
		}

		switch Format {
		case "all", "raw", "processed":
		default:
			return fmt.Errorf("atlassian-rag: unknown --format %q, expected all, raw or processed", Format)
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/atlassian-rag.yaml, respects ATLASSIAN_RAG_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringVar(&OutputDir, "output-dir", "./output", "directory to write data/ and logs/ into")
	rootCmd.PersistentFlags().StringVar(&EnvFile, "env-file", ".env", "dotenv file holding Atlassian credentials")
	rootCmd.PersistentFlags().StringVar(&Format, "format", "all", "which outputs to write: all, raw or processed")
	rootCmd.PersistentFlags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to record and replay API responses")
	rootCmd.PersistentFlags().BoolVar(&IncludeComments, "include-comments", false, "also fetch comments")
	rootCmd.PersistentFlags().BoolVar(&IncludeAttachments, "include-attachments", false, "also record attachment metadata")
	rootCmd.PersistentFlags().BoolVar(&IncludeChangelog, "include-changelog", false, "also fetch issue changelogs (JIRA commands)")
	rootCmd.PersistentFlags().Float64Var(&RateLimit, "rate-limit", 5, "API requests per second")
	rootCmd.PersistentFlags().IntVar(&RateBurst, "rate-burst", 10, "API request burst size")
	rootCmd.PersistentFlags().StringVar(&StoryPointsField, "story-points-field", "", "JIRA custom field holding story points, e.g. customfield_10016")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := Config != ""
	if !explicit {
		// Did the user provide an ENV?
		if envConfig := os.Getenv("ATLASSIAN_RAG_CONFIG"); envConfig != "" {
			Config = envConfig
			explicit = true
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = "~/.config/atlassian-rag.yaml"
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("cmd: unable to expand homedir: %w", err)
	}
	ConfigActual = config

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		if explicit {
			return fmt.Errorf("cmd: specified config file does not exist: %w", err)
		}
		// Running without a config file is fine; flags and the environment
		// cover everything.
		debugLog("no config file at %s, continuing without\n", ConfigActual)
		return nil
	}

	yamlFile, err := os.ReadFile(ConfigActual)
	if err != nil {
		return fmt.Errorf("cmd: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a key we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("cmd: issue parsing config file: %w", err)
	}

	// Bind the current command's flags to viper
	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("cmd: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	Debug              *bool `yaml:"debug"`
	WithVCR            *bool `yaml:"with-vcr"`
	IncludeComments    *bool `yaml:"include-comments"`
	IncludeAttachments *bool `yaml:"include-attachments"`
	IncludeChangelog   *bool `yaml:"include-changelog"`
	IncludeArchived    *bool `yaml:"include-archived"`

	OutputDir        string `yaml:"output-dir"`
	EnvFile          string `yaml:"env-file"`
	Format           string `yaml:"format"`
	BodyFormat       string `yaml:"body-format"`
	StoryPointsField string `yaml:"story-points-field"`

	RateLimit float64 `yaml:"rate-limit"`
	RateBurst int     `yaml:"rate-burst"`
}

// Bind each cobra flag to its associated configuration file key.  Flags set
// on the command line win; the YAML only fills in what the user didn't say.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("cmd: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// hmm... the flag is unknown.  but that can legitimately happen if you're running
			// e.g. `process` which has no `body-format` flag but your YAML file does define
			// that key...
			continue
		}
		if !cmd.Flags().Changed(key) {
			switch field.Kind() {
			case reflect.Ptr:
				// err, this is crappy, but i know YamlConfig only uses pointers for bools.....
				b, ok := field.Value().(*bool)
				if !ok {
					return fmt.Errorf("cmd: found unrecognised field: %+v", field)
				}
				if b != nil {
					cmd.Flags().Set(key, fmt.Sprintf("%v", *b))
				}

			case reflect.String:
				s, ok := field.Value().(string)
				if !ok {
					return fmt.Errorf("cmd: found unrecognised field: %+v", field)
				}
				if s != "" {
					cmd.Flags().Set(key, s)
				}

			case reflect.Int:
				n, ok := field.Value().(int)
				if !ok {
					return fmt.Errorf("cmd: found unrecognised field: %+v", field)
				}
				if n != 0 {
					cmd.Flags().Set(key, fmt.Sprintf("%d", n))
				}

			case reflect.Float64:
				f, ok := field.Value().(float64)
				if !ok {
					return fmt.Errorf("cmd: found unrecognised field: %+v", field)
				}
				if f != 0 {
					cmd.Flags().Set(key, fmt.Sprintf("%v", f))
				}

			default:
				return fmt.Errorf("cmd: found unrecognised field: %+v", field)
			}
		}
	}

	return nil
}

// rawWanted and processedWanted translate --format into the two output
// families: raw CSV on one side, JSONL and friends on the other.
func rawWanted() bool { return Format == "all" || Format == "raw" }

func processedWanted() bool { return Format == "all" || Format == "processed" }

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Flags are only available after (or inside, presumably) the .Execute() thing.
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("atlassian-rag: execution error: %w", err)
	}

	return nil
}
