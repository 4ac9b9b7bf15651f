package rest

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gridstake/tictactoe-backend/internal/service"
)

type Server struct {
	logger *slog.Logger
	app    *fiber.App
}

func New(logger *slog.Logger, gamePlayService service.GamePlayService, gameService service.GameService, userService service.UserService) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
	})

	h := newHandlers(logger, gamePlayService, gameService, userService)

	app.Get("/ping", h.Ping)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/", h.RegisterUser)
	users.Get("/:id", h.GetUser)
	users.Post("/:id/deposits", h.Deposit)
	users.Get("/:id/transactions", h.GetUserTransactions)

	games := api.Group("/games")
	games.Post("/", h.CreateGame)
	games.Post("/join-public", h.JoinPublicGame)
	games.Get("/:id", h.GetGame)
	games.Get("/:id/transactions", h.GetGameTransactions)
	games.Post("/:id/join", h.JoinGame)
	games.Post("/:id/cancel", h.CancelGame)
	games.Post("/:id/moves", h.SubmitMove)

	return &Server{
		logger: logger.With("component", "rest"),
		app:    app,
	}
}

func (that *Server) Start(port string) error {
	if err := that.app.Listen(":" + port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown() error {
	if err := that.app.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
