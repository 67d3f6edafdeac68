// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/autobrr/rudder/internal/api"
	"github.com/autobrr/rudder/internal/api/handlers"
	"github.com/autobrr/rudder/internal/buildinfo"
	"github.com/autobrr/rudder/internal/config"
	"github.com/autobrr/rudder/internal/dispatch"
	"github.com/autobrr/rudder/internal/domain"
	"github.com/autobrr/rudder/internal/engine/qbit"
	"github.com/autobrr/rudder/internal/metrics"
	"github.com/autobrr/rudder/internal/recovery"
)

func main() {
	config.InitDefaultLogger(buildinfo.Version)

	var rootCmd = &cobra.Command{
		Use:   "rudder",
		Short: "Missing-data recovery for remote download engines",
		Long: `rudder - a recovery control surface for a remote download engine.
Classifies missing-data errors, probes storage paths and drives the
relocate/verify/resume sequence that puts torrents back on track.`,
	}

	rootCmd.Version = buildinfo.Version

	rootCmd.AddCommand(RunServeCommand())
	rootCmd.AddCommand(RunVersionCommand(buildinfo.Version))
	rootCmd.AddCommand(RunGenerateConfigCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func RunServeCommand() *cobra.Command {
	var (
		configDir string
		logPath   string
		pprofFlag bool
	)

	var command = &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
	}

	command.Flags().StringVar(&configDir, "config-dir", "", "config directory path (default is OS-specific: ~/.config/rudder/ or %APPDATA%\\rudder\\). For backward compatibility, can also be a direct path to a .toml file")
	command.Flags().StringVar(&logPath, "log-path", "", "log file path (default is stdout)")
	command.Flags().BoolVar(&pprofFlag, "pprof", false, "enable pprof server on :6060")

	command.Run = func(cmd *cobra.Command, args []string) {
		app := NewApplication(configDir, logPath, pprofFlag)
		app.runServer()
	}

	return command
}

func RunVersionCommand(version string) *cobra.Command {
	var command = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rudder",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	return command
}

func RunGenerateConfigCommand() *cobra.Command {
	var configDir string

	command := &cobra.Command{
		Use:   "generate-config",
		Short: "Generate a default configuration file",
		Long: `Generate a default configuration file without starting the server.

If no --config-dir is specified, uses the OS-specific default location:
- Linux/macOS: ~/.config/rudder/config.toml
- Windows: %APPDATA%\rudder\config.toml

You can specify either a directory path or a direct file path:
- Directory: rudder generate-config --config-dir /path/to/config/
- File: rudder generate-config --config-dir /path/to/myconfig.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var configPath string
			if configDir != "" {
				if strings.HasSuffix(strings.ToLower(configDir), ".toml") {
					configPath = configDir
				} else if info, err := os.Stat(configDir); err == nil && !info.IsDir() {
					configPath = configDir
				} else {
					configPath = filepath.Join(configDir, "config.toml")
				}
			} else {
				defaultDir := config.GetDefaultConfigDir()
				configPath = filepath.Join(defaultDir, "config.toml")
			}

			if _, err := os.Stat(configPath); err == nil {
				cmd.Printf("Configuration file already exists at: %s\n", configPath)
				cmd.Println("Skipping generation to avoid overwriting existing configuration.")
				return nil
			}

			if err := config.WriteDefaultConfig(configPath); err != nil {
				return fmt.Errorf("failed to create configuration file: %w", err)
			}

			cmd.Printf("Configuration file created successfully at: %s\n", configPath)
			return nil
		},
	}

	command.Flags().StringVar(&configDir, "config-dir", "",
		"config directory or file path (defaults to OS-specific location)")

	return command
}

type Application struct {
	configDir string
	logPath   string
	pprofFlag bool
}

func NewApplication(configDir, logPath string, pprofFlag bool) *Application {
	return &Application{
		configDir: configDir,
		logPath:   logPath,
		pprofFlag: pprofFlag,
	}
}

func (app *Application) runServer() {
	// Initialize configuration
	cfg, err := config.New(app.configDir, buildinfo.Version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	// Override with CLI flags if provided
	if app.logPath != "" {
		os.Setenv("RUDDER__LOG_PATH", app.logPath)
		cfg.Config.LogPath = app.logPath
	}

	if app.pprofFlag {
		cfg.Config.PprofEnabled = true
	}

	cfg.ApplyLogConfig()

	log.Info().Str("version", buildinfo.Version).Msg("Starting rudder")

	// Connect the engine adapter. The adapter logs in eagerly so a bad
	// engineUrl or credential fails fast at startup.
	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Config.EngineTimeout)
	client, err := qbit.NewAdapter(connectCtx, qbit.Config{
		Host:                  cfg.Config.EngineURL,
		Username:              cfg.Config.EngineUsername,
		Password:              cfg.Config.EnginePassword,
		TLSSkipVerify:         cfg.Config.EngineTLSSkipVerify,
		Timeout:               cfg.Config.EngineTimeout,
		LocalFilesystemAccess: cfg.Config.LocalFilesystemAccess,
	})
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Str("engineUrl", cfg.Config.EngineURL).Msg("Failed to connect to download engine")
	}

	session := recovery.NewSession(client, recovery.Options{
		PollInterval:  cfg.Config.RecoveryPollInterval,
		VerifyTimeout: cfg.Config.RecoveryVerifyTimeout,
		ProbeAttempts: cfg.Config.RecoveryProbeAttempts,
		ProbeDelay:    cfg.Config.RecoveryProbeDelay,
		HistorySize:   cfg.Config.RecoveryHistorySize,
	})

	refresher := handlers.NewEngineRefresher(client)
	dispatcher := dispatch.NewDispatcher(client, refresher)

	// Reload listeners: log settings take effect without a restart.
	cfg.RegisterReloadListener(func(conf *domain.Config) {
		cfg.ApplyLogConfig()
	})

	httpServer := api.NewServer(&api.Dependencies{
		Config:     cfg,
		Version:    buildinfo.Version,
		Client:     client,
		Session:    session,
		Dispatcher: dispatcher,
		Refresher:  refresher,
	})

	errorChannel := make(chan error)
	serverReady := make(chan struct{}, 1)
	go func() {
		if err := httpServer.ListenAndServeReady(serverReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorChannel <- err
		}
	}()

	select {
	case <-serverReady:
	case err := <-errorChannel:
		log.Fatal().Err(err).Msg("failed to start HTTP server")
	}

	if cfg.Config.MetricsEnabled {
		metricsManager := metrics.NewManager(client)
		session.SetOutcomeHandler(metricsManager.ObserveRecoveryOutcome)

		// Start metrics server on separate port
		go func() {
			metricsServer := metrics.NewServer(
				metricsManager,
				cfg.Config.MetricsHost,
				cfg.Config.MetricsPort,
			)

			errorChannel <- metricsServer.ListenAndServe()
		}()
	}

	// Start profiling server if enabled
	if cfg.Config.PprofEnabled {
		go func() {
			log.Info().Msg("Starting pprof server on :6060")
			log.Info().Msg("Access profiling at: http://localhost:6060/debug/pprof/")
			if err := http.ListenAndServe(":6060", nil); err != nil {
				log.Error().Err(err).Msg("Profiling server failed")
			}
		}()
	}

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Msgf("got signal %v, shutting down server", sig.String())
	case err := <-errorChannel:
		log.Error().Err(err).Msg("got unexpected error from server")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("got error during graceful http shutdown")

		os.Exit(1)
	}

	os.Exit(0)
}
