package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridstake/tictactoe-backend/internal/apperror"
	"github.com/gridstake/tictactoe-backend/internal/board"
	"github.com/gridstake/tictactoe-backend/internal/entity"
	"github.com/gridstake/tictactoe-backend/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGamePlay(store repository.Store, feePercent int, botSkill float64) GamePlayService {
	return NewGamePlayService(discardLogger(), store, NewLedgerService(feePercent), NewBotService(botSkill))
}

// seedTwoPlayerGame stores a playing game with stakes already captured.
func seedTwoPlayerGame(t *testing.T, store *memStore, b board.Board, turn string) *entity.Game {
	t.Helper()

	seedUser(t, store, "player-x", 0)
	seedUser(t, store, "player-o", 0)

	opponentID := "player-o"
	game := &entity.Game{
		ID:        "game-1",
		Board:     b,
		Turn:      turn,
		Status:    entity.StatusPlaying,
		Type:      entity.PublicType,
		PlayerXID: "player-x",
		PlayerOID: &opponentID,
		BetAmount: decimal.NewFromInt(10),
		Pot:       decimal.NewFromInt(20),
	}

	require.NoError(t, store.Games().Create(context.Background(), game))

	return game
}

func TestGamePlayService_SubmitMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Opening move advances the turn without settlement", func(t *testing.T) {
		// Given: a fresh two-player game with X on turn
		store := newMemStore()
		seedTwoPlayerGame(t, store, board.New(), entity.PlayerX)
		gamePlay := newGamePlay(store, 5, 1.0)

		// When: X plays the center
		game, err := gamePlay.SubmitMove(ctx, "game-1", "player-x", 4)

		// Then: the board holds X at 4, O is on turn, no money moved
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.Board[4])
		assert.Equal(t, entity.PlayerO, game.Turn)
		assert.Equal(t, entity.StatusPlaying, game.Status)
		assert.Empty(t, store.transactions)
	})

	t.Run("Turn strictly alternates across successful moves", func(t *testing.T) {
		store := newMemStore()
		seedTwoPlayerGame(t, store, board.New(), entity.PlayerX)
		gamePlay := newGamePlay(store, 5, 1.0)

		moves := []struct {
			userID string
			cell   int
		}{
			{"player-x", 0},
			{"player-o", 4},
			{"player-x", 1},
			{"player-o", 5},
		}

		turn := entity.PlayerX
		for _, move := range moves {
			game, err := gamePlay.SubmitMove(ctx, "game-1", move.userID, move.cell)
			require.NoError(t, err)
			assert.Equal(t, board.ToggleMark(turn), game.Turn)
			turn = game.Turn
		}
	})

	t.Run("Winning move settles the pot for the winner", func(t *testing.T) {
		// Given: X completes the top row with one move
		store := newMemStore()
		seedTwoPlayerGame(t, store, board.Board{
			entity.PlayerX, entity.PlayerX, board.EmptyCell,
			entity.PlayerO, entity.PlayerO, board.EmptyCell,
			board.EmptyCell, board.EmptyCell, board.EmptyCell,
		}, entity.PlayerX)
		gamePlay := newGamePlay(store, 5, 1.0)

		// When: X plays 2
		game, err := gamePlay.SubmitMove(ctx, "game-1", "player-x", 2)

		// Then: the game completes and the winner is credited the pot
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, game.Status)
		assert.Equal(t, entity.PlayerX, game.Winner)
		require.NotNil(t, game.EndedAt)

		winner := userOf(t, store, "player-x")
		assert.True(t, decimal.NewFromInt(20).Equal(winner.Balance))
		assert.Equal(t, 1, winner.GamesWon)

		loser := userOf(t, store, "player-o")
		assert.True(t, loser.Balance.IsZero())
		assert.Equal(t, 1, loser.GamesPlayed)
	})

	t.Run("Retrying the winning move cannot settle twice", func(t *testing.T) {
		// Given: a game that just completed through a winning move
		store := newMemStore()
		seedTwoPlayerGame(t, store, board.Board{
			entity.PlayerX, entity.PlayerX, board.EmptyCell,
			entity.PlayerO, entity.PlayerO, board.EmptyCell,
			board.EmptyCell, board.EmptyCell, board.EmptyCell,
		}, entity.PlayerX)
		gamePlay := newGamePlay(store, 5, 1.0)

		_, err := gamePlay.SubmitMove(ctx, "game-1", "player-x", 2)
		require.NoError(t, err)

		transactionsBefore := len(store.transactions)
		balanceBefore := userOf(t, store, "player-x").Balance

		// When: the same move is submitted again
		_, err = gamePlay.SubmitMove(ctx, "game-1", "player-x", 2)

		// Then: the retry is rejected and no money moves
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Len(t, store.transactions, transactionsBefore)
		assert.True(t, balanceBefore.Equal(userOf(t, store, "player-x").Balance))
	})

	t.Run("Final move into a full board refunds both players", func(t *testing.T) {
		// Given: a board full except cell 8 where no line can complete
		store := newMemStore()
		seedTwoPlayerGame(t, store, board.Board{
			entity.PlayerX, entity.PlayerO, entity.PlayerX,
			entity.PlayerX, entity.PlayerO, entity.PlayerO,
			entity.PlayerO, entity.PlayerX, board.EmptyCell,
		}, entity.PlayerX)
		gamePlay := newGamePlay(store, 5, 1.0)

		// When: X fills the last cell
		game, err := gamePlay.SubmitMove(ctx, "game-1", "player-x", 8)

		// Then: the game draws and each player gets their stake back
		require.NoError(t, err)
		assert.Equal(t, entity.StatusDraw, game.Status)
		assert.Empty(t, game.Winner)

		for _, id := range []string{"player-x", "player-o"} {
			user := userOf(t, store, id)
			assert.True(t, decimal.NewFromInt(10).Equal(user.Balance))
			assert.Equal(t, 1, user.GamesPlayed)
			assert.Equal(t, 0, user.GamesWon)
		}
	})

	t.Run("Rejects a move on a finished game without touching records", func(t *testing.T) {
		store := newMemStore()
		game := seedTwoPlayerGame(t, store, board.New(), entity.PlayerX)
		game.Status = entity.StatusCompleted
		game.Winner = entity.PlayerX
		require.NoError(t, store.Games().UpdateState(ctx, game))
		gamePlay := newGamePlay(store, 5, 1.0)

		_, err := gamePlay.SubmitMove(ctx, "game-1", "player-o", 0)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Empty(t, store.transactions)
	})

	t.Run("Rejects a move out of turn", func(t *testing.T) {
		store := newMemStore()
		seedTwoPlayerGame(t, store, board.New(), entity.PlayerX)
		gamePlay := newGamePlay(store, 5, 1.0)

		_, err := gamePlay.SubmitMove(ctx, "game-1", "player-o", 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Rejects a stranger", func(t *testing.T) {
		store := newMemStore()
		seedTwoPlayerGame(t, store, board.New(), entity.PlayerX)
		gamePlay := newGamePlay(store, 5, 1.0)

		_, err := gamePlay.SubmitMove(ctx, "game-1", "someone-else", 0)

		require.ErrorIs(t, err, apperror.ErrNotParticipant)
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		store := newMemStore()
		b := board.New()
		b[0] = entity.PlayerO
		seedTwoPlayerGame(t, store, b, entity.PlayerX)
		gamePlay := newGamePlay(store, 5, 1.0)

		_, err := gamePlay.SubmitMove(ctx, "game-1", "player-x", 0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Rejects an out of range cell", func(t *testing.T) {
		store := newMemStore()
		seedTwoPlayerGame(t, store, board.New(), entity.PlayerX)
		gamePlay := newGamePlay(store, 5, 1.0)

		_, err := gamePlay.SubmitMove(ctx, "game-1", "player-x", 9)

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Rejects an unknown game", func(t *testing.T) {
		store := newMemStore()
		gamePlay := newGamePlay(store, 5, 1.0)

		_, err := gamePlay.SubmitMove(ctx, "missing", "player-x", 0)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Aborts when a concurrent move lands before the lock", func(t *testing.T) {
		// Given: a store where another move slips in between validation
		// and taking the row lock
		store := newMemStore()
		seedTwoPlayerGame(t, store, board.New(), entity.PlayerX)
		gamePlay := newGamePlay(&raceStore{memStore: store}, 5, 1.0)

		// When: X submits a move
		_, err := gamePlay.SubmitMove(ctx, "game-1", "player-x", 0)

		// Then: the engine refuses rather than applying a stale move
		require.ErrorIs(t, err, apperror.ErrStateChanged)
	})
}

func TestGamePlayService_SubmitMove_BotGames(t *testing.T) {
	ctx := context.Background()

	seedBotGame := func(t *testing.T, store *memStore, b board.Board, turn string) *entity.Game {
		t.Helper()

		seedUser(t, store, "human", 0)

		game := &entity.Game{
			ID:        "game-1",
			Board:     b,
			Turn:      turn,
			Status:    entity.StatusPlaying,
			Type:      entity.WithBotType,
			PlayerXID: "human",
			BetAmount: decimal.NewFromInt(10),
			Pot:       decimal.NewFromInt(20),
		}

		require.NoError(t, store.Games().Create(context.Background(), game))

		return game
	}

	t.Run("Bot answers within the same move", func(t *testing.T) {
		// Given: a bot game where X threatens the top row
		store := newMemStore()
		seedBotGame(t, store, board.Board{
			entity.PlayerX, board.EmptyCell, board.EmptyCell,
			entity.PlayerO, board.EmptyCell, board.EmptyCell,
			board.EmptyCell, board.EmptyCell, board.EmptyCell,
		}, entity.PlayerX)
		gamePlay := newGamePlay(store, 5, 1.0)

		// When: the human plays 1, threatening to win at 2
		game, err := gamePlay.SubmitMove(ctx, "game-1", "human", 1)

		// Then: the skilled bot blocks at 2 in the same update and the
		// human is back on turn
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, game.Board[2])
		assert.Equal(t, entity.PlayerX, game.Turn)
		assert.Equal(t, entity.StatusPlaying, game.Status)
	})

	t.Run("Human win settles before the bot could answer", func(t *testing.T) {
		// Given: X wins outright with the submitted move
		store := newMemStore()
		seedBotGame(t, store, board.Board{
			entity.PlayerX, entity.PlayerX, board.EmptyCell,
			entity.PlayerO, entity.PlayerO, board.EmptyCell,
			board.EmptyCell, board.EmptyCell, board.EmptyCell,
		}, entity.PlayerX)
		gamePlay := newGamePlay(store, 10, 1.0)

		// When: the human completes the row
		game, err := gamePlay.SubmitMove(ctx, "game-1", "human", 2)

		// Then: the game completes, fee comes off the synthetic pot
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, game.Status)
		assert.Equal(t, entity.PlayerX, game.Winner)
		assert.True(t, decimal.NewFromInt(19).Equal(userOf(t, store, "human").Balance))
	})

	t.Run("Bot counter-move can win and settle against the human", func(t *testing.T) {
		// Given: the bot already holds two of the middle row and wins at 5
		// whatever the human does elsewhere
		store := newMemStore()
		seedBotGame(t, store, board.Board{
			entity.PlayerX, board.EmptyCell, board.EmptyCell,
			entity.PlayerO, entity.PlayerO, board.EmptyCell,
			entity.PlayerX, board.EmptyCell, board.EmptyCell,
		}, entity.PlayerX)
		gamePlay := newGamePlay(store, 10, 1.0)

		// When: the human plays a cell that stops nothing
		game, err := gamePlay.SubmitMove(ctx, "game-1", "human", 8)

		// Then: the bot completes its row in the same pass and the loss
		// settles against the human
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, game.Status)
		assert.Equal(t, entity.PlayerO, game.Winner)

		human := userOf(t, store, "human")
		assert.True(t, human.Balance.IsZero())
		assert.Equal(t, 1, human.GamesPlayed)
		assert.Equal(t, 0, human.GamesWon)

		transactions := store.transactionsOf("human")
		require.Len(t, transactions, 1)
		assert.Equal(t, entity.TransactionLoss, transactions[0].Type)
	})
}

// raceStore mutates the game between the validation read and the locked
// re-read, simulating a concurrent move submission.
type raceStore struct {
	*memStore
}

func (that *raceStore) Atomic(ctx context.Context, fn func(store repository.Store) error) error {
	game := that.memStore.games["game-1"]
	game.Turn = board.ToggleMark(game.Turn)
	game.Version++
	that.memStore.games["game-1"] = game

	return that.memStore.Atomic(ctx, fn)
}
