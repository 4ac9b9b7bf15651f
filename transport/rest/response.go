package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gridstake/tictactoe-backend/internal/apperror"
	"github.com/gridstake/tictactoe-backend/internal/service"
)

func jsonSuccess(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// jsonDomainError maps domain sentinels to HTTP status codes. Anything
// unrecognized is a storage-level failure and surfaces as a generic 500 so
// the client re-fetches state instead of retrying blindly.
func jsonDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidBetAmount),
		errors.Is(err, apperror.ErrInvalidAmount):
		return jsonError(c, fiber.StatusBadRequest, err.Error())

	case errors.Is(err, apperror.ErrGameNotFound),
		errors.Is(err, apperror.ErrUserNotFound),
		errors.Is(err, apperror.ErrNoWaitingGames):
		return jsonError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, apperror.ErrNotParticipant):
		return jsonError(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, apperror.ErrInsufficientFunds):
		return jsonError(c, fiber.StatusPaymentRequired, err.Error())

	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrStateChanged),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrGameIsNotStarted),
		errors.Is(err, apperror.ErrGameIsFull),
		errors.Is(err, apperror.ErrGameAlreadyStarted):
		return jsonError(c, fiber.StatusConflict, err.Error())

	case errors.Is(err, service.ErrNoAvailableMoves):
		return jsonError(c, fiber.StatusConflict, err.Error())

	default:
		return jsonError(c, fiber.StatusInternalServerError, "failed to complete request")
	}
}
