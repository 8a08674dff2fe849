package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/veneer-editor/veneer/internal/api"
	"github.com/veneer-editor/veneer/internal/config"
	"github.com/veneer-editor/veneer/internal/decorations"
	"github.com/veneer-editor/veneer/internal/logging"
	"github.com/veneer-editor/veneer/internal/registrar"
	"github.com/veneer-editor/veneer/internal/scm"
	"github.com/veneer-editor/veneer/internal/websocket"
)

// Version information (set at build time with -ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "veneer",
	Short:   "Veneer - source-control file decoration daemon",
	Long:    `Veneer bridges source-control provider state into per-file decorations consumed by editor frontends`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Veneer %s\n", Version)
		if BuildTime != "unknown" {
			fmt.Printf("Built: %s\n", BuildTime)
		}
		if GitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", GitCommit)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(hashTokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer() {
	// Baseline logger for early startup logs
	logging.Init(logging.Config{
		Format:    "auto",
		Level:     "info",
		Component: "veneer",
	})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Re-initialize logging with configuration-driven settings
	logging.Init(logging.Config{
		Format:    cfg.LogFormat,
		Level:     cfg.LogLevel,
		Component: "veneer",
	})

	log.Info().Str("version", Version).Msg("Starting Veneer decoration daemon")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := scm.NewRegistry()
	service := decorations.NewService()
	reg := registrar.New(registry, service, cfg)
	defer reg.Close()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	unhook := service.OnDidChange(hub.BroadcastChange)
	defer unhook()

	tokenHash := newTokenHashHolder(cfg.APITokenHash)

	watcher, err := config.NewWatcher(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Config watcher unavailable, live reload disabled")
	} else {
		watcher.OnChange(func(next *config.Config) {
			logging.SetGlobalLevel(next.LogLevel)
			tokenHash.set(next.APITokenHash)
			reg.ApplyConfig(next)
		})
		if err := watcher.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start config watcher")
		}
		defer watcher.Stop()

		hangup := make(chan os.Signal, 1)
		signal.Notify(hangup, syscall.SIGHUP)
		go func() {
			for {
				select {
				case <-hangup:
					log.Info().Msg("SIGHUP received, reloading configuration")
					watcher.Reload()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	handler := api.NewRouter(registry, service, hub, tokenHash.get)
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	startMetricsServer(ctx, cfg.MetricsAddr)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", cfg.ListenAddr).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
	log.Info().Msg("Shutdown complete")
}
