package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"arena/application"
	"arena/config"
	"arena/database"
	"arena/domain/services"
	"arena/gateway"
	"arena/repository"
)

// Run initializes and starts the arena server
func Run(ctx context.Context) error {
	log.Info("Starting arena server...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	uowFactory := repository.NewUnitOfWorkFactory(db)

	playerRepo := repository.NewPlayerRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	playerService := services.NewPlayerService(playerRepo, statsRepo, uowFactory)
	matchmaker := services.NewMatchmakingService(playerRepo, matchRepo)

	hub := gateway.NewHub()
	adjudicator := application.NewAdjudicator(uowFactory, hub)
	server := gateway.NewServer(hub, playerService, matchmaker, adjudicator)

	httpServer := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     server.Routes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Infof("Arena is running in %s mode", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down arena server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}

	log.Info("Shutdown completed")
	return nil
}
