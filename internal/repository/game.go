package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gridstake/tictactoe-backend/internal/apperror"
	"github.com/gridstake/tictactoe-backend/internal/entity"
)

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Game, error)
	UpdateState(ctx context.Context, game *entity.Game) error
}

type gameRepository struct {
	db *gorm.DB
}

func (that *gameRepository) Create(ctx context.Context, game *entity.Game) error {
	if err := that.db.WithContext(ctx).Create(game).Error; err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	return nil
}

func (that *gameRepository) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	var game entity.Game

	err := that.db.WithContext(ctx).First(&game, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return &game, nil
}

// GetByIDForUpdate loads the game under a row lock; it must be called inside
// an Atomic block so concurrent settlements serialize on the row.
func (that *gameRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Game, error) {
	var game entity.Game

	err := that.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&game, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return &game, nil
}

// UpdateState persists the mutable game columns conditioned on the version
// the game was loaded with. A concurrent writer bumps the version first and
// the update matches no row.
func (that *gameRepository) UpdateState(ctx context.Context, game *entity.Game) error {
	loadedVersion := game.Version
	game.Version = loadedVersion + 1

	result := that.db.WithContext(ctx).
		Model(&entity.Game{}).
		Where("id = ? AND version = ?", game.ID, loadedVersion).
		Select("board", "current_player", "status", "winner", "pot", "player_o_id", "ended_at", "version").
		Updates(game)

	if result.Error != nil {
		game.Version = loadedVersion
		return fmt.Errorf("failed to update game: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		game.Version = loadedVersion
		return apperror.ErrStateChanged
	}

	return nil
}
