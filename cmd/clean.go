package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/dgrab/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove rendered galleries from the cache",
	Long: `Remove everything dgrab has written to its cache directory.

Galleries are regenerated on demand, so this is always safe.

Examples:
  dgrab clean`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprint(out, ui.StyleWarning.Render("Cleaning cache... "))

	if err := appDirs.CleanCache(); err != nil {
		fmt.Fprintln(out, ui.FormatError("Failed"))
		return err
	}

	fmt.Fprintln(out, ui.FormatSuccess("Done"))
	fmt.Fprintln(out, ui.FormatMuted("Removed rendered galleries from "+appDirs.CachePath))
	return nil
}
