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

	v1 "github.com/iwoork/homeforpup-sub008/cmd/api/router/v1"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the messaging HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required to serve the API")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	gin.SetMode(cfg.GinMode)
	r := gin.Default()
	v1.RegisterRoutes(r, usecase.NewMessagingService(d.repo, d.resolver, d.drift), []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("messaging API listening on %s (store=%s directory=%s)", cfg.HTTPAddr, cfg.StoreDriver, cfg.DirectoryDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Printf("shutting down messaging API")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
