package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-bot/internal/config"
	"github.com/rocketscienceinc/tictactoe-bot/internal/pkg/random"
	"github.com/rocketscienceinc/tictactoe-bot/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-bot/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-bot/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisClient, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisClient.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	bot := tictactoe.NewBot(random.New(conf.Bot.Seed))
	gameManager := usecase.NewGameManager(logger, func(sessionID string) storage.Storage {
		return storage.NewRedisStore(redisClient, sessionID)
	}, bot, usecase.Options{
		MoveLogKey:    conf.MoveLog.Key,
		MoveLogExpiry: conf.MoveLog.Expiry,
		ConsentExpiry: conf.Consent.Expiry,
		IdleTimeout:   conf.Session.IdleTimeout,
	})

	go gameManager.RunEviction(ctx, conf.Session.SweepInterval)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, gameManager)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
