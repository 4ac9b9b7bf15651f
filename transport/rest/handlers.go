package rest

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/gridstake/tictactoe-backend/internal/entity"
	"github.com/gridstake/tictactoe-backend/internal/service"
)

type handlers struct {
	logger *slog.Logger

	gamePlayService service.GamePlayService
	gameService     service.GameService
	userService     service.UserService
}

func newHandlers(logger *slog.Logger, gamePlayService service.GamePlayService, gameService service.GameService, userService service.UserService) *handlers {
	return &handlers{
		logger:          logger.With("component", "handlers"),
		gamePlayService: gamePlayService,
		gameService:     gameService,
		userService:     userService,
	}
}

func (that *handlers) Ping(c *fiber.Ctx) error {
	return c.SendString("pong")
}

type submitMoveRequest struct {
	UserID string `json:"user_id"`
	Cell   *int   `json:"cell"`
}

func (that *handlers) SubmitMove(c *fiber.Ctx) error {
	gameID := c.Params("id")

	var req submitMoveRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.UserID == "" || req.Cell == nil {
		return jsonError(c, fiber.StatusBadRequest, "user_id and cell are required")
	}

	game, err := that.gamePlayService.SubmitMove(c.Context(), gameID, req.UserID, *req.Cell)
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusOK, game)
}

type createGameRequest struct {
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	BetAmount decimal.Decimal `json:"bet_amount"`
}

func (that *handlers) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.UserID == "" {
		return jsonError(c, fiber.StatusBadRequest, "user_id is required")
	}

	switch req.Type {
	case entity.PublicType, entity.PrivateType, entity.WithBotType:
	default:
		return jsonError(c, fiber.StatusBadRequest, "unknown game type")
	}

	game, err := that.gameService.CreateGame(c.Context(), req.UserID, req.Type, req.BetAmount)
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusCreated, game)
}

func (that *handlers) GetGame(c *fiber.Ctx) error {
	game, err := that.gameService.GetGameByID(c.Context(), c.Params("id"))
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusOK, game)
}

func (that *handlers) GetGameTransactions(c *fiber.Ctx) error {
	transactions, err := that.gameService.GetGameTransactions(c.Context(), c.Params("id"))
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusOK, transactions)
}

type joinGameRequest struct {
	UserID string `json:"user_id"`
}

func (that *handlers) JoinGame(c *fiber.Ctx) error {
	var req joinGameRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.UserID == "" {
		return jsonError(c, fiber.StatusBadRequest, "user_id is required")
	}

	game, err := that.gameService.JoinGameByID(c.Context(), c.Params("id"), req.UserID)
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusOK, game)
}

func (that *handlers) JoinPublicGame(c *fiber.Ctx) error {
	var req joinGameRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.UserID == "" {
		return jsonError(c, fiber.StatusBadRequest, "user_id is required")
	}

	game, err := that.gameService.JoinWaitingPublicGame(c.Context(), req.UserID)
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusOK, game)
}

func (that *handlers) CancelGame(c *fiber.Ctx) error {
	var req joinGameRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.UserID == "" {
		return jsonError(c, fiber.StatusBadRequest, "user_id is required")
	}

	game, err := that.gameService.CancelWaitingGame(c.Context(), c.Params("id"), req.UserID)
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusOK, game)
}

type registerUserRequest struct {
	Username string `json:"username"`
}

func (that *handlers) RegisterUser(c *fiber.Ctx) error {
	var req registerUserRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" {
		return jsonError(c, fiber.StatusBadRequest, "username is required")
	}

	user, err := that.userService.Register(c.Context(), req.Username)
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusCreated, user)
}

func (that *handlers) GetUser(c *fiber.Ctx) error {
	user, err := that.userService.GetUserByID(c.Context(), c.Params("id"))
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusOK, user)
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (that *handlers) Deposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := that.userService.Deposit(c.Context(), c.Params("id"), req.Amount)
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusOK, user)
}

func (that *handlers) GetUserTransactions(c *fiber.Ctx) error {
	transactions, err := that.userService.GetUserTransactions(c.Context(), c.Params("id"))
	if err != nil {
		return jsonDomainError(c, err)
	}

	return jsonSuccess(c, fiber.StatusOK, transactions)
}
