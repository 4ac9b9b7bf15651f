package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gridstake/tictactoe-backend/internal/apperror"
	"github.com/gridstake/tictactoe-backend/internal/board"
	"github.com/gridstake/tictactoe-backend/internal/entity"
	"github.com/gridstake/tictactoe-backend/internal/repository"
)

var oneHundred = decimal.NewFromInt(100)

// StatsDelta describes a statistics update for one user. Played must cover
// Won so that gamesWon never exceeds gamesPlayed.
type StatsDelta struct {
	Played        int
	Won           int
	WinningsDelta decimal.Decimal
}

// LedgerService owns every balance, statistics and transaction-row mutation.
// All methods operate on the store they are handed, so callers decide the
// transaction boundary; SettleTerminalGame in particular must run inside the
// same Atomic block that flips the game into its terminal status.
type LedgerService interface {
	Debit(ctx context.Context, store repository.Store, userID string, amount decimal.Decimal, txType string, gameID *string) (*entity.User, error)
	Credit(ctx context.Context, store repository.Store, userID string, amount decimal.Decimal, txType string, gameID *string) (*entity.User, error)
	RecordStats(ctx context.Context, store repository.Store, userID string, delta StatsDelta) error
	SettleTerminalGame(ctx context.Context, store repository.Store, game *entity.Game, outcome board.Outcome) error
}

type ledgerService struct {
	feePercent decimal.Decimal
}

// NewLedgerService configures the ledger with the platform fee percentage
// applied to net winnings in bot games.
func NewLedgerService(platformFeePercent int) LedgerService {
	return &ledgerService{
		feePercent: decimal.NewFromInt(int64(platformFeePercent)),
	}
}

// Debit takes amount from the user's balance under a row lock and appends
// the matching transaction row.
func (that *ledgerService) Debit(ctx context.Context, store repository.Store, userID string, amount decimal.Decimal, txType string, gameID *string) (*entity.User, error) {
	user, err := store.Users().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user for debit: %w", err)
	}

	if user.Balance.LessThan(amount) {
		return nil, apperror.ErrInsufficientFunds
	}

	before := user.Balance
	user.Balance = user.Balance.Sub(amount)

	if err = store.Users().Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user after debit: %w", err)
	}

	if err = that.appendTransaction(ctx, store, user.ID, txType, amount, before, user.Balance, gameID); err != nil {
		return nil, err
	}

	return user, nil
}

// Credit adds amount to the user's balance under a row lock and appends the
// matching transaction row.
func (that *ledgerService) Credit(ctx context.Context, store repository.Store, userID string, amount decimal.Decimal, txType string, gameID *string) (*entity.User, error) {
	user, err := store.Users().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user for credit: %w", err)
	}

	before := user.Balance
	user.Balance = user.Balance.Add(amount)

	if err = store.Users().Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user after credit: %w", err)
	}

	if err = that.appendTransaction(ctx, store, user.ID, txType, amount, before, user.Balance, gameID); err != nil {
		return nil, err
	}

	return user, nil
}

func (that *ledgerService) RecordStats(ctx context.Context, store repository.Store, userID string, delta StatsDelta) error {
	user, err := store.Users().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user for stats: %w", err)
	}

	user.GamesPlayed += delta.Played
	user.GamesWon += delta.Won

	if user.GamesWon > user.GamesPlayed {
		return fmt.Errorf("games won %d exceeds games played %d for user %s", user.GamesWon, user.GamesPlayed, user.ID)
	}

	user.TotalWinnings = user.TotalWinnings.Add(delta.WinningsDelta)

	if err = store.Users().Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user stats: %w", err)
	}

	return nil
}

// SettleTerminalGame converts a terminal outcome into money movement.
// Stakes were captured when players entered the game, so a win pays the whole
// pot to the winner and a draw refunds each human participant their own
// stake. The bot's synthetic stake is platform money: it is never refunded,
// and in bot games the platform fee is taken from the winner's net winnings.
func (that *ledgerService) SettleTerminalGame(ctx context.Context, store repository.Store, game *entity.Game, outcome board.Outcome) error {
	if outcome.Draw {
		return that.settleDraw(ctx, store, game)
	}

	return that.settleWin(ctx, store, game, outcome.Winner)
}

func (that *ledgerService) settleDraw(ctx context.Context, store repository.Store, game *entity.Game) error {
	for _, userID := range game.HumanIDs() {
		if _, err := that.Credit(ctx, store, userID, game.BetAmount, entity.TransactionRefund, &game.ID); err != nil {
			return fmt.Errorf("failed to refund stake: %w", err)
		}

		if err := that.RecordStats(ctx, store, userID, StatsDelta{Played: 1}); err != nil {
			return err
		}
	}

	return nil
}

func (that *ledgerService) settleWin(ctx context.Context, store repository.Store, game *entity.Game, winnerMark string) error {
	winnerID, loserID := that.resolveSeats(game, winnerMark)

	if winnerID != "" {
		payout := game.Pot
		fee := decimal.Zero

		if game.IsWithBot() && that.feePercent.IsPositive() {
			netWinnings := game.Pot.Sub(game.BetAmount)
			fee = netWinnings.Mul(that.feePercent).Div(oneHundred).Round(2)
			payout = game.Pot.Sub(fee)
		}

		if _, err := that.Credit(ctx, store, winnerID, payout, entity.TransactionWin, &game.ID); err != nil {
			return fmt.Errorf("failed to credit winner: %w", err)
		}

		if fee.IsPositive() {
			if err := that.recordEntry(ctx, store, winnerID, entity.TransactionPlatformFee, fee, &game.ID); err != nil {
				return err
			}
		}

		delta := StatsDelta{Played: 1, Won: 1, WinningsDelta: payout.Sub(game.BetAmount)}
		if err := that.RecordStats(ctx, store, winnerID, delta); err != nil {
			return err
		}
	}

	if loserID != "" {
		// The loser's stake was captured at game entry; record the loss
		// without touching the balance.
		if err := that.recordEntry(ctx, store, loserID, entity.TransactionLoss, game.BetAmount, &game.ID); err != nil {
			return err
		}

		if err := that.RecordStats(ctx, store, loserID, StatsDelta{Played: 1}); err != nil {
			return err
		}
	}

	return nil
}

// resolveSeats maps the winning mark to tracked user ids. Either side may be
// empty when the seat is held by the bot.
func (that *ledgerService) resolveSeats(game *entity.Game, winnerMark string) (winnerID, loserID string) {
	var oID string
	if game.PlayerOID != nil {
		oID = *game.PlayerOID
	}

	if winnerMark == entity.PlayerX {
		return game.PlayerXID, oID
	}

	return oID, game.PlayerXID
}

func (that *ledgerService) appendTransaction(ctx context.Context, store repository.Store, userID, txType string, amount, before, after decimal.Decimal, gameID *string) error {
	transaction := &entity.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		GameID:        gameID,
		Type:          txType,
		Amount:        amount,
		Status:        entity.TransactionCompleted,
		BalanceBefore: before,
		BalanceAfter:  after,
	}

	if err := store.Transactions().Create(ctx, transaction); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

func (that *ledgerService) recordEntry(ctx context.Context, store repository.Store, userID, txType string, amount decimal.Decimal, gameID *string) error {
	user, err := store.Users().GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user for ledger entry: %w", err)
	}

	return that.appendTransaction(ctx, store, userID, txType, amount, user.Balance, user.Balance, gameID)
}
