package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"podcast-catalog/internal/catalog"
	"podcast-catalog/internal/config"
	"podcast-catalog/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog API, podcast feeds and audio over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr())

			if err := ctx.ensureSetup(); err != nil {
				return err
			}

			listenAddr := config.ListenAddr()
			if err := config.ValidateListenAddr(listenAddr); err != nil {
				return fmt.Errorf("invalid listen address %q: %w", listenAddr, err)
			}

			if err := config.EnsureCatalogDir(ctx.catalogDir); err != nil {
				return fmt.Errorf("create catalog directory: %w", err)
			}

			store, err := catalog.NewStore(ctx.catalogDir, ctx.site.Categories, config.RefreshDebounce(), logger)
			if err != nil {
				return fmt.Errorf("initialise catalog: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Warn("error closing catalog store", "err", err)
				}
			}()

			handler := server.New(store, server.Options{
				AudioRoot: store.Root(),
				Feed: server.FeedMetadata{
					Title:       ctx.site.Title,
					Description: ctx.site.Description,
					Language:    ctx.site.Language,
					Author:      ctx.site.Author,
				},
				SuggestionLimit: config.SuggestionLimit(),
			}, logger)

			httpServer := &http.Server{
				Addr:              listenAddr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				<-sigCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("graceful shutdown error", "err", err)
				}
			}()

			logger.Info("listening", "addr", listenAddr, "catalog", store.Root())
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		},
	}
}
