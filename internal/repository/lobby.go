package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridstake/tictactoe-backend/internal/apperror"
)

const waitingGamesKey = "lobby:waiting-games"

// LobbyRepository indexes public games waiting for an opponent. The index is
// advisory: the game row in Postgres stays authoritative and joins re-verify
// status there.
type LobbyRepository interface {
	Add(ctx context.Context, gameID string) error
	PopAny(ctx context.Context) (string, error)
	Remove(ctx context.Context, gameID string) error
}

type lobbyRepository struct {
	client *redis.Client
}

func NewLobbyRepository(client *redis.Client) LobbyRepository {
	return &lobbyRepository{
		client: client,
	}
}

func (that *lobbyRepository) Add(ctx context.Context, gameID string) error {
	if err := that.client.SAdd(ctx, waitingGamesKey, gameID).Err(); err != nil {
		return fmt.Errorf("failed to add waiting game: %w", err)
	}

	return nil
}

func (that *lobbyRepository) PopAny(ctx context.Context) (string, error) {
	gameID, err := that.client.SPop(ctx, waitingGamesKey).Result()

	if errors.Is(err, redis.Nil) {
		return "", apperror.ErrNoWaitingGames
	}

	if err != nil {
		return "", fmt.Errorf("failed to pop waiting game: %w", err)
	}

	return gameID, nil
}

func (that *lobbyRepository) Remove(ctx context.Context, gameID string) error {
	if err := that.client.SRem(ctx, waitingGamesKey, gameID).Err(); err != nil {
		return fmt.Errorf("failed to remove waiting game: %w", err)
	}

	return nil
}
