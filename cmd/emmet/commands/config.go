package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/emmet/config"
	"github.com/teranos/emmet/errors"
)

// ConfigCmd shows and checks the process configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and validate emmet configuration",
	Long: `Display and check the emmet configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (EMMET_* prefix, e.g. EMMET_SERVER_TRANSPORT)
3. Project config (./` + config.ProjectConfigName + `, searched up from the working directory)
4. User config (~/.emmet/config.toml)
5. System config (/etc/emmet/config.toml)
6. Default values

Examples:
  emmet config show                 # Show current configuration
  emmet config show --format json   # Show configuration as JSON
  emmet config where                # Show which files are read
  emmet config validate             # Validate current configuration`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runConfigValidate,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show which configuration files are read",
	RunE:  runConfigWhere,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	out := cmd.OutOrStdout()

	var data []byte
	var err error
	switch configFormat {
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal config to %s", configFormat)
	}

	if configFormat != "json" {
		fmt.Fprintln(out, "# emmet configuration")
	}
	_, err = out.Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Setup has already loaded and validated; validate again for callers
	// that run without it
	if err := currentConfig().Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")

	data := pterm.TableData{{"Source", "Path", "Status"}}
	data = append(data, []string{"default", "built-in", "active"})
	for _, path := range config.SearchPaths() {
		status := "missing"
		if _, err := os.Stat(path); err == nil {
			status = "active"
		}
		data = append(data, []string{"file", path, status})
	}
	data = append(data, []string{"env", config.EnvPrefix + "_*", "active"})

	return pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render()
}
