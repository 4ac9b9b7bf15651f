package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gridstake/tictactoe-backend/internal/apperror"
	"github.com/gridstake/tictactoe-backend/internal/entity"
	"github.com/gridstake/tictactoe-backend/internal/repository"
)

type UserService interface {
	Register(ctx context.Context, username string) (*entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*entity.User, error)
	GetUserTransactions(ctx context.Context, userID string) ([]entity.Transaction, error)
}

type userService struct {
	store  repository.Store
	ledger LedgerService
}

func NewUserService(store repository.Store, ledger LedgerService) UserService {
	return &userService{
		store:  store,
		ledger: ledger,
	}
}

func (that *userService) Register(ctx context.Context, username string) (*entity.User, error) {
	user := &entity.User{
		ID:            uuid.NewString(),
		Username:      username,
		Balance:       decimal.Zero,
		TotalWinnings: decimal.Zero,
	}

	if err := that.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (that *userService) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := that.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Deposit credits externally collected funds to the balance. This is the
// boundary with the payment provider: everything before the credit happens
// outside this service.
func (that *userService) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*entity.User, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount
	}

	var user *entity.User

	err := that.store.Atomic(ctx, func(store repository.Store) error {
		credited, creditErr := that.ledger.Credit(ctx, store, userID, amount, entity.TransactionDeposit, nil)
		if creditErr != nil {
			return creditErr
		}

		user = credited

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (that *userService) GetUserTransactions(ctx context.Context, userID string) ([]entity.Transaction, error) {
	if _, err := that.store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}

	transactions, err := that.store.Transactions().ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user transactions: %w", err)
	}

	return transactions, nil
}
