package service

import (
	"context"
	"fmt"

	"github.com/gridstake/tictactoe-backend/internal/apperror"
	"github.com/gridstake/tictactoe-backend/internal/entity"
	"github.com/gridstake/tictactoe-backend/internal/repository"
)

// memStore is an in-memory repository.Store for service tests. Atomic runs
// the callback against a snapshot and publishes it only on success, so a
// failing settlement leaves no partial writes behind, matching the rollback
// semantics of the real store.
type memStore struct {
	games        map[string]entity.Game
	users        map[string]entity.User
	transactions []entity.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		games: make(map[string]entity.Game),
		users: make(map[string]entity.User),
	}
}

func (that *memStore) clone() *memStore {
	copied := newMemStore()

	for id, game := range that.games {
		copied.games[id] = game
	}

	for id, user := range that.users {
		copied.users[id] = user
	}

	copied.transactions = append(copied.transactions, that.transactions...)

	return copied
}

func (that *memStore) Games() repository.GameRepository {
	return &memGameRepository{store: that}
}

func (that *memStore) Users() repository.UserRepository {
	return &memUserRepository{store: that}
}

func (that *memStore) Transactions() repository.TransactionRepository {
	return &memTransactionRepository{store: that}
}

func (that *memStore) Atomic(_ context.Context, fn func(store repository.Store) error) error {
	snapshot := that.clone()

	if err := fn(snapshot); err != nil {
		return err
	}

	*that = *snapshot

	return nil
}

func (that *memStore) transactionsOf(userID string) []entity.Transaction {
	var result []entity.Transaction
	for _, transaction := range that.transactions {
		if transaction.UserID == userID {
			result = append(result, transaction)
		}
	}

	return result
}

type memGameRepository struct {
	store *memStore
}

func (that *memGameRepository) Create(_ context.Context, game *entity.Game) error {
	if _, ok := that.store.games[game.ID]; ok {
		return fmt.Errorf("game %s already exists", game.ID)
	}

	that.store.games[game.ID] = *game

	return nil
}

func (that *memGameRepository) GetByID(_ context.Context, id string) (*entity.Game, error) {
	game, ok := that.store.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return &game, nil
}

func (that *memGameRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Game, error) {
	return that.GetByID(ctx, id)
}

func (that *memGameRepository) UpdateState(_ context.Context, game *entity.Game) error {
	current, ok := that.store.games[game.ID]
	if !ok || current.Version != game.Version {
		return apperror.ErrStateChanged
	}

	game.Version++
	that.store.games[game.ID] = *game

	return nil
}

type memUserRepository struct {
	store *memStore
}

func (that *memUserRepository) Create(_ context.Context, user *entity.User) error {
	if _, ok := that.store.users[user.ID]; ok {
		return fmt.Errorf("user %s already exists", user.ID)
	}

	that.store.users[user.ID] = *user

	return nil
}

func (that *memUserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	user, ok := that.store.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}

	return &user, nil
}

func (that *memUserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return that.GetByID(ctx, id)
}

func (that *memUserRepository) Save(_ context.Context, user *entity.User) error {
	that.store.users[user.ID] = *user

	return nil
}

type memTransactionRepository struct {
	store *memStore
}

func (that *memTransactionRepository) Create(_ context.Context, transaction *entity.Transaction) error {
	that.store.transactions = append(that.store.transactions, *transaction)

	return nil
}

func (that *memTransactionRepository) ListByUserID(_ context.Context, userID string) ([]entity.Transaction, error) {
	return that.store.transactionsOf(userID), nil
}

func (that *memTransactionRepository) ListByGameID(_ context.Context, gameID string) ([]entity.Transaction, error) {
	var result []entity.Transaction
	for _, transaction := range that.store.transactions {
		if transaction.GameID != nil && *transaction.GameID == gameID {
			result = append(result, transaction)
		}
	}

	return result, nil
}

// memLobby is an in-memory repository.LobbyRepository.
type memLobby struct {
	waiting []string
}

func (that *memLobby) Add(_ context.Context, gameID string) error {
	that.waiting = append(that.waiting, gameID)

	return nil
}

func (that *memLobby) PopAny(_ context.Context) (string, error) {
	if len(that.waiting) == 0 {
		return "", apperror.ErrNoWaitingGames
	}

	gameID := that.waiting[0]
	that.waiting = that.waiting[1:]

	return gameID, nil
}

func (that *memLobby) Remove(_ context.Context, gameID string) error {
	for i, id := range that.waiting {
		if id == gameID {
			that.waiting = append(that.waiting[:i], that.waiting[i+1:]...)
			break
		}
	}

	return nil
}
