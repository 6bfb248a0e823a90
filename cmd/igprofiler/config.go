package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igprofiler/pkg/config"
	"igprofiler/pkg/ui"
)

const defaultConfigPath = "igprofiler.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igprofiler configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (IGPROFILER_*, also read from .env)
  - Configuration file (YAML, or a JSON settings file)
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'igprofiler.yaml'
unless a different path is specified with the --config flag.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging defaults, the
configuration file, environment variables and flags.`,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML/JSON syntax
  - Required fields
  - Value types and ranges`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# igprofiler configuration file
#
# Every option can also be set with an IGPROFILER_ environment variable,
# for example IGPROFILER_MAX_POSTS or IGPROFILER_CONCURRENT_REQUESTS.

# Number of most recent posts kept per profile
max_posts: 12

# Per-request timeout in seconds
request_timeout: 10

# User-Agent header sent with every request
user_agent: "%s"

# Number of profiles fetched in parallel (1-%d)
concurrent_requests: 4

# Host profile pages are fetched from
base_url: "%s"

# Usernames file, one per line; '#' starts a comment
input: "data/input_usernames.txt"

# Export destinations; an empty path disables that format
output:
  json: "data/results.json"
  csv: "data/results.csv"
  xlsx: ""

logging:
  # Log level: debug, info, warn, error, disabled
  level: "info"

  # Log file path (optional), written as JSON lines
  file: ""

metrics:
  # Serve Prometheus metrics on this address, e.g. ":9102"
  listen_address: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	content := fmt.Sprintf(exampleConfig, config.DefaultUserAgent, config.MaxConcurrentRequests, config.DefaultBaseURL)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(ui.Output(), "\nNext steps:")
	fmt.Fprintln(ui.Output(), "1. Edit the configuration file and list your usernames in the input file")
	fmt.Fprintln(ui.Output(), "2. Run 'igprofiler config validate' to check the configuration")
	fmt.Fprintln(ui.Output(), "3. Start with 'igprofiler scrape'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("# Effective configuration")
	fmt.Fprint(ui.Output(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("configuration file not found: %s", configPath)
	}

	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configPath); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration is invalid:\n%w", err)
	}

	ui.PrintSuccess("Configuration is valid: " + configPath)
	return nil
}
