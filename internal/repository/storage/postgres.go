package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gridstake/tictactoe-backend/internal/entity"
)

type PostgresStorage struct {
	Connection *gorm.DB
}

func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresStorage{Connection: conn}, nil
}

// Migrate creates or updates the games, users and transactions tables.
func (that *PostgresStorage) Migrate() error {
	err := that.Connection.AutoMigrate(
		&entity.User{},
		&entity.Game{},
		&entity.Transaction{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

func (that *PostgresStorage) Close() error {
	db, err := that.Connection.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying connection: %w", err)
	}

	if err = db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	return nil
}
