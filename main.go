package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repobrowser/internal/catalog"
	"repobrowser/internal/config"
	"repobrowser/internal/gql"
	"repobrowser/internal/i18n"
	"repobrowser/internal/logger"
	"repobrowser/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Errorf("config load failed: %v", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	if cfg.GitHubToken == "" {
		logger.Log.Warn("no GitHub token configured; GraphQL requests will be rejected")
	}

	graphqlClient := gql.NewClient(cfg)
	repoCatalog := catalog.NewService(graphqlClient, catalog.Options{
		MaxRepositories: cfg.MaxRepositories,
		CacheTTL:        cfg.CacheTTL,
	})

	locales, err := i18n.New(cfg.DefaultLanguage)
	if err != nil {
		logger.Log.Errorf("locale setup failed: %v", err)
		os.Exit(1)
	}

	handler, err := web.NewHandler(cfg, repoCatalog, locales)
	if err != nil {
		logger.Log.Errorf("handler setup failed: %v", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorf("shutdown failed: %v", err)
		}
	}()

	logger.InfoWithFields("repobrowser listening", logger.Fields{
		"addr":      cfg.ListenAddr,
		"page_size": cfg.PageSize,
		"languages": locales.Languages(),
	})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
