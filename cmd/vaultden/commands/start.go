package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vaultden/vaultden/internal/logger"
	"github.com/vaultden/vaultden/pkg/api"
	"github.com/vaultden/vaultden/pkg/config"
	"github.com/vaultden/vaultden/pkg/directory"
	"github.com/vaultden/vaultden/pkg/metrics"
	"github.com/vaultden/vaultden/pkg/vault/acl"
	"github.com/vaultden/vaultden/pkg/vault/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the VaultDen server",
	Long: `Start the VaultDen server with the specified configuration.

The server runs in the foreground; use a process supervisor for daemonization.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/vaultden/config.yaml.

Examples:
  # Start with default config location
  vaultden start

  # Start with custom config file
  vaultden start --config /etc/vaultden/config.yaml

  # Start with environment variable overrides
  VAULTDEN_LOGGING_LEVEL=DEBUG vaultden start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Println("VaultDen - Vault access control service")
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))

	// Initialize the vault metadata store
	st, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Store close error", "error", err)
		}
	}()

	// Directory client for dynamic group membership (optional)
	var dir acl.Directory
	if cfg.Directory.Enabled() {
		dir = directory.New(cfg.Directory)
		logger.Info("Directory service enabled", "base_url", cfg.Directory.BaseURL)
	} else {
		logger.Info("Directory service disabled")
	}

	// ACL metrics (optional); nil means no-op collection
	var aclMetrics *acl.Metrics
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		aclMetrics = acl.NewMetrics(prometheus.DefaultRegisterer)
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("Metrics collection disabled")
	}

	gate := acl.NewGate(st, dir, cfg.Policy, aclMetrics)

	apiServer, err := api.NewServer(cfg.API, st, gate)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}
	logger.Info("API server configured", "port", cfg.API.Port)

	// Start servers in background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	metricsDone := make(chan error, 1)
	if metricsServer != nil {
		go func() {
			metricsDone <- metricsServer.Start(ctx)
		}()
	}

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		// Wait for servers to shut down gracefully
		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		if metricsServer != nil {
			if err := <-metricsDone; err != nil {
				logger.Error("Metrics server shutdown error", "error", err)
			}
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		cancel()
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")

	case err := <-metricsDone:
		signal.Stop(sigChan)
		cancel()
		if err != nil {
			logger.Error("Metrics server error", "error", err)
			return err
		}
	}

	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
