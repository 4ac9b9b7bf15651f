package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/gridstake/tictactoe-backend/internal/config"
	"github.com/gridstake/tictactoe-backend/internal/repository"
	"github.com/gridstake/tictactoe-backend/internal/repository/storage"
	"github.com/gridstake/tictactoe-backend/internal/service"
	"github.com/gridstake/tictactoe-backend/transport/rest"
)

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

	postgresStorage, err := storage.NewPostgresStorage(conf.Postgres.GetDSN())
	if err != nil {
		return fmt.Errorf("could not connect to postgres storage: %w", err)
	}

	defer func() {
		if closeErr := postgresStorage.Close(); closeErr != nil {
			log.Error("could not close postgres storage", "error", closeErr)
		}
	}()

	if err = postgresStorage.Migrate(); err != nil {
		return fmt.Errorf("could not migrate schema: %w", err)
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if closeErr := redisStorage.Close(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}()

	minBet, err := decimal.NewFromString(conf.Game.MinBet)
	if err != nil {
		return fmt.Errorf("invalid min bet: %w", err)
	}

	maxBet, err := decimal.NewFromString(conf.Game.MaxBet)
	if err != nil {
		return fmt.Errorf("invalid max bet: %w", err)
	}

	store := repository.NewStore(postgresStorage.Connection)
	lobbyRepo := repository.NewLobbyRepository(redisStorage.Connection)

	ledgerService := service.NewLedgerService(conf.Game.PlatformFeePercent)
	botService := service.NewBotService(conf.Game.BotSkillProbability())
	gamePlayService := service.NewGamePlayService(logger, store, ledgerService, botService)
	gameService := service.NewGameService(logger, store, lobbyRepo, ledgerService, minBet, maxBet)
	userService := service.NewUserService(store, ledgerService)

	server := rest.New(logger, gamePlayService, gameService, userService)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := server.Start(conf.HTTPPort); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")

		if err = server.Shutdown(); err != nil {
			log.Error("could not shutdown server", "error", err)
		}

		return nil
	}
}
