package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/config"
	"github.com/valeriaulyamaeva/fintrack/internal/handlers"
	"github.com/valeriaulyamaeva/fintrack/internal/jobs"
	"github.com/valeriaulyamaeva/fintrack/internal/routes"
)

var flagMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagMigrate, "migrate", true, "Apply pending schema migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagMigrate {
		applied, err := store.Migrate(ctx)
		if err != nil {
			return err
		}
		if applied > 0 {
			log.Printf("Применено миграций: %d", applied)
		}
	}

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.New(store)
		if err := scheduler.Register(cfg.Jobs.SessionPurgeSpec, cfg.Jobs.RecurringSpec); err != nil {
			return err
		}
		scheduler.Start()
	}

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.NewHandler(store,
		auth.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL),
		handlers.CookieOptions{Secure: cfg.Session.CookieSecure, Domain: cfg.Session.CookieDomain})
	router := routes.SetupRouter(h, routes.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AuthLimiter:    handlers.NewLimiter(float64(cfg.Server.AuthRatePerSecond), nil),
		Middleware:     []gin.HandlerFunc{gin.Logger(), gin.Recovery()},
	})
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Сервер запущен на %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Printf("Получен сигнал завершения, останавливаем сервер")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Printf("Сервер остановлен")
	return nil
}
