package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/MihkelHunter/mkFocus/internal/app"
	"github.com/MihkelHunter/mkFocus/internal/config"
	"github.com/MihkelHunter/mkFocus/internal/logging"
	"github.com/MihkelHunter/mkFocus/internal/notify"
	"github.com/MihkelHunter/mkFocus/internal/version"
	"github.com/MihkelHunter/mkFocus/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the task list, the focus timer and the streak calendar as JSON.

Timer completions are logged as notifications; Prometheus metrics are
exposed on /metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("http-addr", ":8080", "HTTP listen address")
	serveCmd.Flags().String("store", config.StoreSQLite, "storage backend: sqlite | redis | memory")
	serveCmd.Flags().String("redis-addr", "localhost:6379", "Redis address (host:port)")
	serveCmd.Flags().Duration("expiry-delay", time.Minute, "how long completed tasks stay before removal")
	serveCmd.Flags().Int("default-minutes", 25, "initial focus session length in minutes")

	bindFlag("http_addr", serveCmd.Flags(), "http-addr")
	bindFlag("store", serveCmd.Flags(), "store")
	bindFlag("redis_addr", serveCmd.Flags(), "redis-addr")
	bindFlag("expiry_delay", serveCmd.Flags(), "expiry-delay")
	bindFlag("default_minutes", serveCmd.Flags(), "default-minutes")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Load(viper.GetViper())
	logger := logging.New(os.Stdout, cfg.LogLevel, "web")

	a, err := app.Open(cfg, logger, app.Hooks{Notifier: notify.NewLog(logger)})
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("close", slog.String("error", err.Error()))
		}
	}()

	h := web.NewHandler(a.Tasks, a.Timer, a.Streak, a.CalendarDays(), logger)
	httpSrv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("mkfocus HTTP starting",
			slog.String("addr", httpSrv.Addr),
			slog.String("store", cfg.Store),
			slog.String("version", version.String()),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()
		if err := httpSrv.Shutdown(shutCtx); err != nil {
			logger.Error("HTTP shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}
