package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/dgrab/pkg/config"
	"github.com/kamal-hamza/dgrab/pkg/ui"
)

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the dgrab configuration",
	Long: `Create the dgrab directories and a default configuration file.

The following locations are used:
  config : ~/.config/dgrab/config.yaml
  cache  : ~/.cache/dgrab/        (rendered galleries)
  state  : ~/.local/state/dgrab/  (dgrab.log)

Examples:
  dgrab init --endpoint https://example.com/api/attachments
  dgrab init --force              # overwrite an existing config`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if appDirs.ConfigExists() && !initForce {
		fmt.Fprintln(out, ui.FormatWarning("Config already exists"))
		fmt.Fprintln(out, ui.FormatMuted("Location: "+appDirs.ConfigPath))
		fmt.Fprintln(out, ui.FormatMuted("Use --force to overwrite it, or 'dgrab config set endpoint <url>'."))
		return nil
	}

	cfg := config.DefaultConfig()
	if endpointFlag != "" {
		if err := validateEndpoint(endpointFlag); err != nil {
			return err
		}
		cfg.Endpoint = endpointFlag
	}

	fmt.Fprintln(out, ui.FormatRocket("Initializing dgrab..."))
	fmt.Fprintln(out)

	if err := appDirs.Initialize(); err != nil {
		fmt.Fprintln(out, ui.FormatError("Failed to create directories"))
		return err
	}

	if err := cfg.Save(appDirs.ConfigPath); err != nil {
		fmt.Fprintln(out, ui.FormatError("Failed to write config"))
		return err
	}

	fmt.Fprintln(out, ui.FormatSuccess("Configuration created"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderKeyValue("Config", appDirs.ConfigPath))
	fmt.Fprintln(out, ui.RenderKeyValue("Cache", appDirs.CachePath))
	fmt.Fprintln(out, ui.RenderKeyValue("Log", appDirs.LogPath()))
	fmt.Fprintln(out)

	fmt.Fprintln(out, ui.FormatInfo("Next steps:"))
	step := 1
	if cfg.Endpoint == "" {
		fmt.Fprintln(out, ui.FormatMuted(fmt.Sprintf("  %d. Set your API endpoint: dgrab config set endpoint <url>", step)))
		step++
	}
	fmt.Fprintln(out, ui.FormatMuted(fmt.Sprintf("  %d. Check your setup: dgrab doctor", step)))
	fmt.Fprintln(out, ui.FormatMuted(fmt.Sprintf("  %d. Grab some images: dgrab fetch <message-link>", step+1)))

	return nil
}
