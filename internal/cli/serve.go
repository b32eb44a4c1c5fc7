package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/JohnBasrai/aws-lambda-action-filter/internal/config"
	"github.com/JohnBasrai/aws-lambda-action-filter/internal/logger"
	"github.com/JohnBasrai/aws-lambda-action-filter/internal/server"
	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

const defaultShutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the action filter HTTP service",
	Long: `Runs the action filter HTTP service in the foreground until SIGINT or
SIGTERM. The config file is watched for changes and reloaded live; log
level, filter windows and rate limits apply without a restart, while a
changed listen address takes effect on the next start.`,
	Run: func(cmd *cobra.Command, args []string) {
		runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe contains the main service logic: config, logger, PID file, HTTP
// server, config watcher, then block until a shutdown signal arrives.
func runServe(cmd *cobra.Command) {
	// --- Configuration Loading ---
	cfg, configPath, err := loadConfigOrDefault(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	if err := logger.Init(cfg.Application, nil); err != nil {
		// Use fmt for critical startup errors before logger is confirmed usable
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.L()
	log.Info("Action filter service starting in foreground...")
	if configPath == "" {
		log.Info("No config file found, running on built-in defaults")
	}

	// Record the effective command-line flags for later debugging of
	// "why is it listening there" questions.
	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		log.Debug("Effective flag", "name", f.Name, "value", f.Value.String(), "changed", f.Changed)
	})

	// --- PID File Handling (Basic) ---
	// PID file is generally for daemon processes, but is useful even in
	// foreground to prevent accidental multiple runs and to let the 'stop'
	// command find us.
	pidFilePath := cfg.Application.PIDFilePath
	if pidFilePath != "" {
		if _, err := os.Stat(pidFilePath); err == nil {
			pidBytes, errRead := os.ReadFile(pidFilePath)
			if errRead == nil {
				pidStr := strings.TrimSpace(string(pidBytes))
				pid, errConv := strconv.Atoi(pidStr)
				if errConv == nil {
					process, errFind := os.FindProcess(pid)
					if errFind == nil && process.Signal(syscall.Signal(0)) == nil {
						log.Error("PID file exists and process is running. Aborting.", "path", pidFilePath, "pid", pid)
						fmt.Fprintf(os.Stderr, "Error: Process with PID %d found (from %s). Is the service already running?\n", pid, pidFilePath)
						os.Exit(1)
					}
				}
			}
			log.Warn("Removing stale PID file", "path", pidFilePath)
			_ = os.Remove(pidFilePath)
		}

		currentPid := os.Getpid()
		log.Info("Writing PID file", "path", pidFilePath, "pid", currentPid)
		if err := os.WriteFile(pidFilePath, []byte(fmt.Sprintf("%d", currentPid)), 0644); err != nil {
			log.Error("Failed to write PID file", "error", err)
		}
		defer func() {
			log.Info("Removing PID file on exit", "path", pidFilePath)
			_ = os.Remove(pidFilePath)
		}()
	}

	// --- Service Initialization ---
	log.Debug("Initializing services...")
	store := config.NewStore(configPath, cfg)

	// Reloads carry the new log level into the running logger.
	store.Subscribe(func(newCfg *models.Config) {
		if err := logger.SetLevel(newCfg.Application.LogLevel); err != nil {
			log.Warn("Could not apply reloaded log level", "error", err)
		}
	})

	httpServer := server.NewHTTPServer(store)

	var reloader *config.Reloader
	if configPath != "" {
		reloader, err = config.NewReloader(store, 0)
		if err != nil {
			log.Error("Failed to create config watcher", "error", err)
			os.Exit(1)
		}
	}
	log.Debug("Services initialized")

	// --- Start Services ---
	log.Info("Starting services...")
	httpServer.Start()
	if reloader != nil {
		if err := reloader.Start(); err != nil {
			log.Error("Failed to start config watcher", "error", err)
			os.Exit(1)
		}
	}
	log.Info("All services started successfully")

	// --- Signal Handling for Graceful Shutdown ---
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-stopChan
	log.Info("Received shutdown signal", "signal", sig.String())

	// --- Graceful Shutdown ---
	log.Info("Initiating graceful shutdown...")
	shutdownTimeout := cfg.Application.ShutdownTimeout.Duration
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	// Stop order: HTTP server first so in-flight requests drain, then the
	// config watcher.
	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping HTTP server", "error", err)
	}
	if reloader != nil {
		if err := reloader.Stop(); err != nil {
			log.Error("Error stopping config watcher", "error", err)
		}
	}

	log.Info("Action filter service shut down gracefully")
}
