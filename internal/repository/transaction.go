package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gridstake/tictactoe-backend/internal/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	ListByUserID(ctx context.Context, userID string) ([]entity.Transaction, error)
	ListByGameID(ctx context.Context, gameID string) ([]entity.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func (that *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	if err := that.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (that *transactionRepository) ListByUserID(ctx context.Context, userID string) ([]entity.Transaction, error) {
	var transactions []entity.Transaction

	err := that.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by user id: %w", err)
	}

	return transactions, nil
}

func (that *transactionRepository) ListByGameID(ctx context.Context, gameID string) ([]entity.Transaction, error) {
	var transactions []entity.Transaction

	err := that.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by game id: %w", err)
	}

	return transactions, nil
}
