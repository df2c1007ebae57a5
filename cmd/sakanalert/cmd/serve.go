package cmd

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

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/selhaddad/sakanalert/internal/api/handlers"
	"github.com/selhaddad/sakanalert/internal/api/middleware"
	"github.com/selhaddad/sakanalert/internal/config"
	"github.com/selhaddad/sakanalert/internal/engine"
	"github.com/selhaddad/sakanalert/internal/notify"
	"github.com/selhaddad/sakanalert/internal/store"
	"github.com/selhaddad/sakanalert/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and matching scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	notifier, err := buildNotifier(cfg, log)
	if err != nil {
		return fmt.Errorf("building notifier: %w", err)
	}

	eng := engine.New(st, notifier, log, cfg.Matching)

	scheduler := engine.NewScheduler(eng, cfg.Matching.Interval, log)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}

	e := buildServer(st, eng, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	// Stop scheduling new runs, then wait for any in-flight run.
	select {
	case <-scheduler.Stop().Done():
	case <-time.After(30 * time.Second):
		log.Warn("in-flight matching run did not finish before shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildNotifier selects the push gateway. Without FCM credentials pushes are
// discarded with a log line; matching and bookkeeping run normally.
func buildNotifier(cfg *config.Config, log *slog.Logger) (notify.Notifier, error) {
	if !cfg.Notifications.FCM.Enabled {
		log.Info("FCM disabled, push notifications will be discarded")
		return notify.NewNoOpNotifier(log), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	n, err := notify.NewFCMNotifier(ctx, cfg.Notifications.FCM.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("initializing FCM: %w", err)
	}
	return n, nil
}

func buildServer(st store.Store, eng *engine.Engine, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	healthH := handlers.NewHealthHandler(st)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	alertH := handlers.NewAlertHandler(st)
	e.GET("/api/v1/alerts", alertH.List)
	e.GET("/api/v1/alerts/:id", alertH.Get)
	e.POST("/api/v1/alerts", alertH.Create)
	e.PUT("/api/v1/alerts/:id", alertH.Update)
	e.PUT("/api/v1/alerts/:id/active", alertH.SetActive)
	e.DELETE("/api/v1/alerts/:id", alertH.Delete)

	profileH := handlers.NewProfileHandler(st)
	e.PUT("/api/v1/profiles/:user_id/push-token", profileH.SetPushToken)

	api := humaecho.New(e, huma.DefaultConfig("sakanalert API", Version))
	handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(st))
	handlers.RegisterTriggerRoutes(api, handlers.NewTriggerHandler(eng), handlers.NewRunsHandler(st))

	return e
}
