package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gridstake/tictactoe-backend/internal/apperror"
	"github.com/gridstake/tictactoe-backend/internal/entity"
	"github.com/gridstake/tictactoe-backend/internal/repository"
)

// GameService covers the game lifecycle around settlement: staked creation,
// seating an opponent, and refunding games nobody joined.
type GameService interface {
	CreateGame(ctx context.Context, creatorID, gameType string, betAmount decimal.Decimal) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, userID string) (*entity.Game, error)
	JoinWaitingPublicGame(ctx context.Context, userID string) (*entity.Game, error)
	CancelWaitingGame(ctx context.Context, gameID, userID string) (*entity.Game, error)

	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
	GetGameTransactions(ctx context.Context, gameID string) ([]entity.Transaction, error)
}

type gameService struct {
	logger *slog.Logger
	store  repository.Store
	lobby  repository.LobbyRepository
	ledger LedgerService

	minBet decimal.Decimal
	maxBet decimal.Decimal
}

func NewGameService(logger *slog.Logger, store repository.Store, lobby repository.LobbyRepository, ledger LedgerService, minBet, maxBet decimal.Decimal) GameService {
	return &gameService{
		logger: logger.With("component", "game"),
		store:  store,
		lobby:  lobby,
		ledger: ledger,
		minBet: minBet,
		maxBet: maxBet,
	}
}

// CreateGame debits the creator's stake and creates the game row in one
// transaction. Bot games start playing immediately with the pot doubled by
// the bot's synthetic stake; public games are announced in the lobby index.
func (that *gameService) CreateGame(ctx context.Context, creatorID, gameType string, betAmount decimal.Decimal) (*entity.Game, error) {
	if !betAmount.IsPositive() || betAmount.LessThan(that.minBet) || betAmount.GreaterThan(that.maxBet) {
		return nil, apperror.ErrInvalidBetAmount
	}

	game := entity.NewGame(uuid.NewString(), creatorID, gameType, betAmount)

	if game.IsWithBot() {
		game.Status = entity.StatusPlaying
		game.Pot = betAmount.Mul(decimal.NewFromInt(2))
	}

	err := that.store.Atomic(ctx, func(store repository.Store) error {
		if _, debitErr := that.ledger.Debit(ctx, store, creatorID, betAmount, entity.TransactionBet, &game.ID); debitErr != nil {
			return debitErr
		}

		return store.Games().Create(ctx, game)
	})
	if err != nil {
		return nil, err
	}

	if game.Type == entity.PublicType {
		if err = that.lobby.Add(ctx, game.ID); err != nil {
			// The index is advisory; the game is still joinable by id.
			that.logger.Error("failed to announce waiting game", "gameID", game.ID, "error", err)
		}
	}

	return game, nil
}

// JoinGameByID seats the joiner as O, captures their stake and starts the
// game, all in one transaction.
func (that *gameService) JoinGameByID(ctx context.Context, gameID, userID string) (*entity.Game, error) {
	var joined *entity.Game

	err := that.store.Atomic(ctx, func(store repository.Store) error {
		game, lockErr := store.Games().GetByIDForUpdate(ctx, gameID)
		if lockErr != nil {
			return lockErr
		}

		if game.IsTerminal() {
			return apperror.ErrGameFinished
		}

		if !game.IsWaiting() || game.IsWithBot() || game.PlayerOID != nil {
			return apperror.ErrGameIsFull
		}

		if game.PlayerXID == userID {
			return apperror.ErrGameIsFull
		}

		if _, debitErr := that.ledger.Debit(ctx, store, userID, game.BetAmount, entity.TransactionBet, &game.ID); debitErr != nil {
			return debitErr
		}

		game.PlayerOID = &userID
		game.Status = entity.StatusPlaying
		game.Pot = game.Pot.Add(game.BetAmount)

		if updateErr := store.Games().UpdateState(ctx, game); updateErr != nil {
			return updateErr
		}

		joined = game

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err = that.lobby.Remove(ctx, gameID); err != nil {
		that.logger.Error("failed to remove game from lobby", "gameID", gameID, "error", err)
	}

	return joined, nil
}

// JoinWaitingPublicGame pops lobby entries until one of them still accepts
// an opponent. Stale entries are possible because the index is advisory.
func (that *gameService) JoinWaitingPublicGame(ctx context.Context, userID string) (*entity.Game, error) {
	for {
		gameID, err := that.lobby.PopAny(ctx)
		if err != nil {
			return nil, err
		}

		game, err := that.JoinGameByID(ctx, gameID, userID)

		if errors.Is(err, apperror.ErrGameNotFound) ||
			errors.Is(err, apperror.ErrGameFinished) ||
			errors.Is(err, apperror.ErrGameIsFull) {
			continue
		}

		if err != nil {
			// The game still waits for an opponent; the failure is on the
			// joiner's side, so the entry goes back into the index.
			if addErr := that.lobby.Add(ctx, gameID); addErr != nil {
				that.logger.Error("failed to re-announce waiting game", "gameID", gameID, "error", addErr)
			}

			return nil, err
		}

		return game, nil
	}
}

// CancelWaitingGame refunds the creator's stake for a game nobody joined.
func (that *gameService) CancelWaitingGame(ctx context.Context, gameID, userID string) (*entity.Game, error) {
	var canceled *entity.Game

	err := that.store.Atomic(ctx, func(store repository.Store) error {
		game, lockErr := store.Games().GetByIDForUpdate(ctx, gameID)
		if lockErr != nil {
			return lockErr
		}

		if game.PlayerXID != userID {
			return apperror.ErrNotParticipant
		}

		if game.IsTerminal() {
			return apperror.ErrGameFinished
		}

		if !game.IsWaiting() {
			return apperror.ErrGameAlreadyStarted
		}

		if _, creditErr := that.ledger.Credit(ctx, store, userID, game.BetAmount, entity.TransactionRefund, &game.ID); creditErr != nil {
			return creditErr
		}

		now := time.Now().UTC()
		game.Status = entity.StatusCanceled
		game.EndedAt = &now

		if updateErr := store.Games().UpdateState(ctx, game); updateErr != nil {
			return updateErr
		}

		canceled = game

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err = that.lobby.Remove(ctx, gameID); err != nil {
		that.logger.Error("failed to remove game from lobby", "gameID", gameID, "error", err)
	}

	return canceled, nil
}

func (that *gameService) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.store.Games().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return game, nil
}

func (that *gameService) GetGameTransactions(ctx context.Context, gameID string) ([]entity.Transaction, error) {
	if _, err := that.store.Games().GetByID(ctx, gameID); err != nil {
		return nil, err
	}

	transactions, err := that.store.Transactions().ListByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list game transactions: %w", err)
	}

	return transactions, nil
}
