package main

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

	_ "gachaactu/backend/docs"
	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/handler"
	"gachaactu/backend/internal/logging"
	"gachaactu/backend/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDatabase()

	if err := database.Migrate(database.DB); err != nil {
		return err
	}
	if err := handler.RegisterValidators(); err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	handler.RegisterRoutes(router, cfg.CacheTTL)

	sched := scheduler.New(cache.Default)
	if err := sched.Start(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server is running", "addr", srv.Addr, "swagger", "/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		<-sched.Stop().Done()
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		slog.Warn("scheduler did not stop in time")
	}
	slog.Info("server stopped")
	return nil
}
