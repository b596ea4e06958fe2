package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plantdoc/internal/app"
	"plantdoc/internal/logging"
)

var (
	home       string
	configPath string
	serviceURL string
	passphrase string
	verbose    bool

	cfg     *app.Config
	cfgPath string
	logger  *zap.Logger
	appCtx  *app.Wire
)

// Execute runs the plantdoc CLI.
func Execute() error {
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "plantdoc",
		Short:        "Diagnose plant leaf diseases from photos",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir := home
			if dir == "" {
				dir = os.Getenv("PLANTDOC_HOME")
			}
			if dir == "" {
				dir = app.DefaultHome()
			}
			path := configPath
			if path == "" {
				path = filepath.Join(dir, app.ConfigFilename)
			}

			var err error
			cfgPath = path
			cfg, err = app.Load(path)
			if err != nil {
				return err
			}
			if home != "" || cfg.Client.Home == "" {
				cfg.Client.Home = dir
			}
			if serviceURL != "" {
				cfg.Service.BaseURL = serviceURL
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}
			if err := os.MkdirAll(cfg.Client.Home, 0o700); err != nil {
				return err
			}

			logger, err = logging.New(cfg.LoggingOptions())
			if err != nil {
				return err
			}

			appCtx, err = app.NewWire(cfg, logger, cmd.ErrOrStderr())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.plantdoc)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVar(&serviceURL, "service", "", "diagnosis service base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the stored API token")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		diagnoseCmd(),
		previewCmd(),
		historyCmd(),
		loginCmd(),
		logoutCmd(),
		trialCmd(),
		configCmd(),
	)
	return root
}
