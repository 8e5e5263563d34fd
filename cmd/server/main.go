package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	router "github.com/dkeye/WatchParty/internal/adapters/http"
	"github.com/dkeye/WatchParty/internal/app"
	"github.com/dkeye/WatchParty/internal/app/orch"
	"github.com/dkeye/WatchParty/internal/config"
	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/logging"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "watchparty",
		Short:         "Room-scoped watch party relay",
		Long:          "Runs the websocket relay that keeps every room's player in sync with its host and relays chat between members.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default config/config.$CONFIG_ENV.yaml)")
	cmd.Flags().Int("port", 8080, "listen port")
	cmd.Flags().String("mode", "release", "gin mode: debug or release")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	closer := logging.Setup(cfg.Mode, cfg.Log)
	defer closer.Close()

	rooms := core.NewRegistry()
	peers := app.NewDirectory()
	policy := app.SimplePolicy{
		HostOnlyMedia:    cfg.HostOnlyMedia,
		HostOnlyPlayback: cfg.HostOnlyPlayback,
	}
	chat := app.NewRateLimiter(cfg.ChatRateLimit, cfg.ChatRateInterval)
	o := orch.New(rooms, peers, policy, chat)

	// Connections outlive the signal context so they can flush the shutdown
	// notice before closing.
	sessCtx, stopSessions := context.WithCancel(context.Background())
	defer stopSessions()

	r := router.SetupRouter(sessCtx, cfg, o)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("WatchParty server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	log.Info().Int("sessions", o.Shutdown()).Msg("closed live sessions")
	// hijacked websockets are not tracked by srv.Shutdown
	for peers.Len() > 0 && shutdownCtx.Err() == nil {
		time.Sleep(20 * time.Millisecond)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}

func main() {
	logging.Bootstrap()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("watchparty failed")
		cancel()
		os.Exit(1)
	}
}
