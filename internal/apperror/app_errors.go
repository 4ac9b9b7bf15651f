package apperror

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotParticipant   = errors.New("player is not a participant of this game")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrStateChanged     = errors.New("game state changed by a concurrent move")

	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidBetAmount   = errors.New("invalid bet amount")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrNoWaitingGames     = errors.New("no waiting games")
	ErrGameIsFull         = errors.New("game already has two players")
	ErrGameAlreadyStarted = errors.New("game already started")
)
