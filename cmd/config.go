package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/dgrab/pkg/config"
	"github.com/kamal-hamza/dgrab/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the dgrab configuration",
	Long: `Show the effective configuration (file, ` + config.EndpointEnv + ` and --endpoint applied).

Examples:
  dgrab config
  dgrab config path
  dgrab config get endpoint
  dgrab config set endpoint https://example.com/api/attachments
  dgrab config set notify false
  dgrab config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), appDirs.ConfigPath)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one config value",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := effectiveConfig()
		value, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one config value and save it",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runConfigSet,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)
}

// effectiveConfig returns the loaded config with the --endpoint override applied
func effectiveConfig() *config.Config {
	cfg := *appConfig
	cfg.Endpoint = resolveEndpoint(appConfig)
	return &cfg
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := effectiveConfig()

	fmt.Fprintln(out, ui.FormatTitle("dgrab configuration"))
	fmt.Fprintln(out)

	table := ui.NewTable([]ui.TableColumn{
		{Header: "KEY"},
		{Header: "VALUE", MaxWidth: 80},
	})
	for _, k := range config.Keys() {
		value, err := cfg.Get(k)
		if err != nil {
			return err
		}
		if value == "" {
			value = "(not set)"
		}
		table.AddRow([]string{k, value})
	}
	fmt.Fprint(out, table.Render())
	fmt.Fprintln(out)

	source := appDirs.ConfigPath
	if !appDirs.ConfigExists() {
		source += " (not created, using defaults)"
	}
	fmt.Fprintln(out, ui.FormatMuted("File: "+source))
	if os.Getenv(config.EndpointEnv) != "" {
		fmt.Fprintln(out, ui.FormatMuted("endpoint overridden by "+config.EndpointEnv))
	}
	if endpointFlag != "" {
		fmt.Fprintln(out, ui.FormatMuted("endpoint overridden by --endpoint"))
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if key == "endpoint" {
		if err := validateEndpoint(value); err != nil {
			return err
		}
	}

	// Env overrides are not written back
	cfg, err := config.LoadFile(appDirs.ConfigPath)
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := appDirs.Initialize(); err != nil {
		return err
	}
	if err := cfg.Save(appDirs.ConfigPath); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.FormatSuccess(fmt.Sprintf("%s = %s", key, value)))
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := appDirs.ConfigPath

	// Create it first so the editor opens a real file
	if !appDirs.ConfigExists() {
		if err := appDirs.Initialize(); err != nil {
			return err
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.FormatInfo("Opening config: "+path))

	c := exec.Command(GetPreferredEditor(), path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
