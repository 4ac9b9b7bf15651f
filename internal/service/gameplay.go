package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridstake/tictactoe-backend/internal/apperror"
	"github.com/gridstake/tictactoe-backend/internal/board"
	"github.com/gridstake/tictactoe-backend/internal/entity"
	"github.com/gridstake/tictactoe-backend/internal/repository"
)

// GamePlayService is the settlement engine: it validates a submitted move
// against the authoritative game row, advances the board, plays the bot's
// counter-move when the bot seat holds the turn, and settles the pot when
// the game reaches a terminal state. Board, turn flip, terminal status and
// all ledger rows commit in one database transaction.
type GamePlayService interface {
	SubmitMove(ctx context.Context, gameID, userID string, cell int) (*entity.Game, error)
}

type gamePlayService struct {
	logger *slog.Logger
	store  repository.Store
	ledger LedgerService
	bot    BotService
}

func NewGamePlayService(logger *slog.Logger, store repository.Store, ledger LedgerService, bot BotService) GamePlayService {
	return &gamePlayService{
		logger: logger.With("component", "gameplay"),
		store:  store,
		ledger: ledger,
		bot:    bot,
	}
}

func (that *gamePlayService) SubmitMove(ctx context.Context, gameID, userID string, cell int) (*entity.Game, error) {
	// Validation pass on an unlocked read: every rejection here happens
	// before anything is written.
	game, err := that.store.Games().GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmPlayingState(); err != nil {
		return nil, err
	}

	mark, err := game.MarkOf(userID)
	if err != nil {
		return nil, err
	}

	if game.Turn != mark {
		return nil, apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= board.Size {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if game.Board[cell] != board.EmptyCell {
		return nil, apperror.ErrCellOccupied
	}

	expectedStatus, expectedTurn := game.Status, game.Turn

	var updated *entity.Game

	err = that.store.Atomic(ctx, func(store repository.Store) error {
		locked, lockErr := store.Games().GetByIDForUpdate(ctx, gameID)
		if lockErr != nil {
			return lockErr
		}

		// A concurrent move may have landed between the validation read
		// and taking the row lock.
		if locked.Status != expectedStatus || locked.Turn != expectedTurn {
			return apperror.ErrStateChanged
		}

		if applyErr := locked.ApplyMove(mark, cell); applyErr != nil {
			return applyErr
		}

		outcome := board.DetectOutcome(locked.Board)

		if !outcome.IsTerminal() && locked.BotHoldsTurn() {
			botOutcome, botErr := that.playBotMove(locked)
			if botErr != nil {
				return botErr
			}

			outcome = botOutcome
		}

		if outcome.IsTerminal() {
			locked.Finish(outcome, time.Now().UTC())

			if settleErr := that.ledger.SettleTerminalGame(ctx, store, locked, outcome); settleErr != nil {
				return fmt.Errorf("failed to settle game: %w", settleErr)
			}
		}

		if updateErr := store.Games().UpdateState(ctx, locked); updateErr != nil {
			return updateErr
		}

		updated = locked

		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.IsTerminal() {
		that.logger.Info("game settled",
			"gameID", updated.ID,
			"status", updated.Status,
			"winner", updated.Winner,
			"pot", updated.Pot.String(),
		)
	}

	return updated, nil
}

// playBotMove makes the bot's counter-move in the same unit of work as the
// human move that triggered it.
func (that *gamePlayService) playBotMove(game *entity.Game) (board.Outcome, error) {
	botMark := game.Turn

	cell, err := that.bot.ChooseMove(game.Board, botMark)
	if err != nil {
		return board.Outcome{}, fmt.Errorf("bot failed to choose move: %w", err)
	}

	if err = game.ApplyMove(botMark, cell); err != nil {
		return board.Outcome{}, fmt.Errorf("bot failed to make move: %w", err)
	}

	return board.DetectOutcome(game.Board), nil
}
