package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/dgrab/internal/adapters/clipboard"
	"github.com/kamal-hamza/dgrab/internal/logger"
	"github.com/kamal-hamza/dgrab/pkg/config"
	"github.com/kamal-hamza/dgrab/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your dgrab setup",
	Long: `Diagnose issues with your dgrab setup.

Checks for:
  - Configuration file existence
  - API endpoint (set and well-formed)
  - Clipboard support
  - Cache and log directories`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, ui.FormatTitle("🩺 dgrab doctor"))
	fmt.Fprintln(out)

	failed := 0
	check := func(name string, fn func() error) {
		if !checkStep(out, name, fn) {
			failed++
		}
	}

	// 1. Config
	check("Configuration File", func() error {
		if !appDirs.ConfigExists() {
			return fmt.Errorf("missing at %s (run 'dgrab init')", appDirs.ConfigPath)
		}
		return nil
	})

	// 2. Endpoint
	check("API Endpoint", func() error {
		return validateEndpoint(resolveEndpoint(appConfig))
	})

	if os.Getenv(config.EndpointEnv) != "" {
		fmt.Fprintf(out, "    %s\n", ui.StyleMuted.Render("endpoint taken from "+config.EndpointEnv))
	}

	// 3. Clipboard
	check("Clipboard", func() error {
		if !clipboard.Available() {
			return fmt.Errorf("no clipboard utility found (install xclip, xsel or wl-clipboard)")
		}
		return nil
	})

	// 4. Directories
	check("Cache Directory", func() error {
		return checkWritable(appDirs.CachePath)
	})

	check("Log File", func() error {
		path := logger.Path()
		if path == "" {
			path = appDirs.LogPath()
		}
		return checkWritable(filepath.Dir(path))
	})

	// 5. Environment
	check("EDITOR Variable", func() error {
		if os.Getenv("VISUAL") == "" && os.Getenv("EDITOR") == "" {
			return fmt.Errorf("not set (using fallback 'vi' for 'dgrab config edit')")
		}
		return nil
	})

	fmt.Fprintln(out)
	if failed > 0 {
		fmt.Fprintln(out, ui.FormatWarning(fmt.Sprintf("%d check(s) need attention", failed)))
		return nil
	}
	fmt.Fprintln(out, ui.FormatSuccess("All checks passed"))
	return nil
}

// checkStep runs a check function and prints the result nicely
func checkStep(out io.Writer, name string, check func() error) bool {
	err := check()
	if err == nil {
		fmt.Fprintf(out, "%s %s\n", ui.StyleSuccess.Render(ui.IconSuccess), name)
		return true
	}

	fmt.Fprintf(out, "%s %s\n", ui.StyleError.Render(ui.IconError), name)
	fmt.Fprintf(out, "    %s\n", ui.StyleMuted.Render(err.Error()))
	return false
}

// checkWritable creates dir if needed and probes it with a temp file
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fmt.Errorf("not writable: %s", dir)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}
