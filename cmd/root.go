package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/dgrab/internal/adapters/api"
	"github.com/kamal-hamza/dgrab/internal/adapters/clipboard"
	"github.com/kamal-hamza/dgrab/internal/adapters/notify"
	"github.com/kamal-hamza/dgrab/internal/core/domain"
	"github.com/kamal-hamza/dgrab/internal/core/ports"
	"github.com/kamal-hamza/dgrab/internal/core/services"
	"github.com/kamal-hamza/dgrab/internal/logger"
	"github.com/kamal-hamza/dgrab/pkg/appdir"
	"github.com/kamal-hamza/dgrab/pkg/config"
	"github.com/kamal-hamza/dgrab/pkg/ui"
)

var (
	// Global paths and configuration
	appDirs   *appdir.Dirs
	appConfig *config.Config

	// Services
	grabService    *services.GrabService
	galleryService *services.GalleryService

	// Global flags
	endpointFlag string
	debugFlag    bool

	newClipboard = func() ports.Clipboard { return clipboard.NewSystem() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dgrab",
	Short: "dgrab - grab image URLs from a chat message",
	Long: ui.StyleTitle.Render("dgrab") + " - message image grabber\n\n" +
		"Paste a Discord message link, fetch its attachments through your API endpoint,\n" +
		"and copy image URLs to the clipboard one at a time or all at once.\n\n" +
		"Run without a subcommand to open the interactive browser.",
	PersistentPreRunE: initializeApp,
	RunE:              runBrowse,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(domain.UserMessage(err)))
		os.Exit(1)
	}
}

// execute runs the root command and closes the log file before returning
func execute() error {
	defer logger.Close()
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVarP(&endpointFlag, "endpoint", "e", "", "API endpoint URL (overrides config and "+config.EndpointEnv+")")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	d, err := appdir.New()
	if err != nil {
		return fmt.Errorf("failed to resolve directories: %w", err)
	}
	appDirs = d

	cfg, err := config.Load(appDirs.ConfigPath)
	if err != nil {
		return err
	}
	appConfig = cfg

	ui.SetTheme(appConfig.ColorTheme)

	logger.SetLevel(logger.ParseLevel(appConfig.LogLevel))
	if debugFlag {
		logger.SetDebug(true)
	}
	if err := logger.Init(appDirs.LogPath()); err != nil {
		// Logging is best-effort; the command still runs
		fmt.Fprintln(os.Stderr, ui.FormatWarning(err.Error()))
	}

	api.UserAgent = "dgrab/" + Version

	source := newAttachmentSource(appConfig)
	grabService = services.NewGrabService(source, newClipboard(), newNotifier(appConfig))
	galleryService = services.NewGalleryService()

	logger.ComponentLogger("cmd").Debug("Initialized", "command", cmd.Name(), "endpoint", source.Endpoint())
	return nil
}

// resolveEndpoint applies the --endpoint override on top of config (which already includes the env)
func resolveEndpoint(cfg *config.Config) string {
	if e := strings.TrimSpace(endpointFlag); e != "" {
		return e
	}
	if cfg == nil {
		return ""
	}
	return cfg.Endpoint
}

func newAttachmentSource(cfg *config.Config) *api.Client {
	return api.NewClient(resolveEndpoint(cfg), cfg.Timeout())
}

func newNotifier(cfg *config.Config) ports.Notifier {
	if !cfg.Notify {
		return notify.Silent{}
	}
	return notify.NewDesktop()
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
