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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
}

type userRepository struct {
	db *gorm.DB
}

func (that *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := that.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (that *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User

	err := that.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetByIDForUpdate loads the user under a row lock for a balance mutation.
func (that *userRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User

	err := that.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

func (that *userRepository) Save(ctx context.Context, user *entity.User) error {
	if err := that.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}
