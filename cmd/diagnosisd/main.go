package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plantdoc/internal/app"
	"plantdoc/internal/logging"
	"plantdoc/internal/server"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		premium    []string
		latency    time.Duration
		logLevel   string
	)
	cmd := &cobra.Command{
		Use:          "diagnosisd",
		Short:        "In-memory plant diagnosis service for development",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = filepath.Join(app.DefaultHome(), app.ConfigFilename)
			}
			cfg, err := app.Load(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			// the CLI's warn default would hide the access log
			if cmd.Flags().Changed("log-level") || os.Getenv("PLANTDOC_LOG_LEVEL") == "" {
				cfg.Logging.Level = logLevel
			}

			log, err := logging.New(cfg.LoggingOptions())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			gin.SetMode(gin.ReleaseMode)

			srv := server.New(server.Options{
				MonthlyLimit:  cfg.Server.MonthlyLimit,
				TrialDays:     cfg.Server.TrialDays,
				RecentLimit:   cfg.Server.RecentLimit,
				MaxImageBytes: cfg.Client.MaxImageBytes,
				PremiumTokens: premium,
				Latency:       latency,
				Log:           log.Named("diagnosisd"),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ListenAndServe(ctx, cfg.Server.Listen); err != nil {
				log.Error("server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ~/.plantdoc/config.yaml)")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8080)")
	cmd.Flags().StringSliceVar(&premium, "premium", nil, "tokens that get an unlimited plan")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	cmd.Flags().DurationVar(&latency, "latency", 0, "artificial delay per diagnosis")
	return cmd
}

