package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories over one database handle. Atomic yields a
// Store bound to a single transaction; domain errors returned from fn roll
// everything back and propagate unwrapped.
type Store interface {
	Games() GameRepository
	Users() UserRepository
	Transactions() TransactionRepository

	Atomic(ctx context.Context, fn func(store Store) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (that *store) Games() GameRepository {
	return &gameRepository{db: that.db}
}

func (that *store) Users() UserRepository {
	return &userRepository{db: that.db}
}

func (that *store) Transactions() TransactionRepository {
	return &transactionRepository{db: that.db}
}

func (that *store) Atomic(ctx context.Context, fn func(store Store) error) error {
	return that.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
