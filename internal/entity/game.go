package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gridstake/tictactoe-backend/internal/apperror"
	"github.com/gridstake/tictactoe-backend/internal/board"
)

const (
	StatusWaiting   = "waiting"
	StatusPlaying   = "playing"
	StatusCompleted = "completed"
	StatusDraw      = "draw"
	StatusCanceled  = "canceled"

	PlayerX = board.MarkX
	PlayerO = board.MarkO
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

// Game is the authoritative record of one staked match. The bot seat is
// always O with a nil PlayerOID; the stake doubling the pot in bot games is
// synthetic platform money, not backed by a user balance.
type Game struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Board     board.Board     `gorm:"serializer:json" json:"board"`
	Turn      string          `gorm:"column:current_player;size:1" json:"current_player"`
	Status    string          `gorm:"size:16;index" json:"status"`
	Winner    string          `gorm:"size:1" json:"winner,omitempty"`
	Type      string          `gorm:"size:16" json:"type,omitempty"`
	PlayerXID string          `gorm:"size:36;index" json:"player_x_id"`
	PlayerOID *string         `gorm:"size:36;index" json:"player_o_id,omitempty"`
	BetAmount decimal.Decimal `gorm:"type:numeric(20,2)" json:"bet_amount"`
	Pot       decimal.Decimal `gorm:"type:numeric(20,2)" json:"pot"`
	Version   int64           `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
}

// NewGame creates a game with the creator seated as X and the creator's
// stake already counted into the pot.
func NewGame(id, creatorID, gameType string, betAmount decimal.Decimal) *Game {
	return &Game{
		ID:        id,
		Board:     board.New(),
		Turn:      PlayerX,
		Status:    StatusWaiting,
		Type:      gameType,
		PlayerXID: creatorID,
		BetAmount: betAmount,
		Pot:       betAmount,
	}
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsPlaying() bool {
	return that.Status == StatusPlaying
}

// IsTerminal reports whether the game accepts no further moves.
func (that *Game) IsTerminal() bool {
	return that.Status == StatusCompleted || that.Status == StatusDraw || that.Status == StatusCanceled
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

// ConfirmPlayingState returns the reason a move cannot be accepted, if any.
func (that *Game) ConfirmPlayingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsTerminal():
		return apperror.ErrGameFinished
	default:
		return nil
	}
}

// MarkOf resolves which seat the given user occupies.
func (that *Game) MarkOf(userID string) (string, error) {
	if userID == that.PlayerXID {
		return PlayerX, nil
	}

	if that.PlayerOID != nil && userID == *that.PlayerOID {
		return PlayerO, nil
	}

	return "", apperror.ErrNotParticipant
}

// BotHoldsTurn reports whether the seat on turn is the unoccupied bot seat.
func (that *Game) BotHoldsTurn() bool {
	return that.IsWithBot() && that.Turn == PlayerO && that.PlayerOID == nil
}

// HumanIDs lists the tracked participants, X first.
func (that *Game) HumanIDs() []string {
	ids := []string{that.PlayerXID}
	if that.PlayerOID != nil {
		ids = append(ids, *that.PlayerOID)
	}

	return ids
}

// ApplyMove places mark on the board and flips the turn.
func (that *Game) ApplyMove(mark string, cell int) error {
	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	newBoard, err := board.ApplyMove(that.Board, cell, mark)

	switch {
	case errors.Is(err, board.ErrInvalidCell):
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	case errors.Is(err, board.ErrCellOccupied):
		return apperror.ErrCellOccupied
	case err != nil:
		return err
	}

	that.Board = newBoard
	that.Turn = board.ToggleMark(mark)

	return nil
}

// Finish flips the game into its terminal status for the given outcome.
func (that *Game) Finish(outcome board.Outcome, now time.Time) {
	if outcome.Draw {
		that.Status = StatusDraw
	} else {
		that.Status = StatusCompleted
		that.Winner = outcome.Winner
	}

	that.Turn = ""
	that.EndedAt = &now
}
