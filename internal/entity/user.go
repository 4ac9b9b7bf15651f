package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// User carries the ledger-relevant fields of a platform account. Balance and
// the counters are mutated only through the ledger service.
type User struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Username      string          `gorm:"size:64" json:"username"`
	Balance       decimal.Decimal `gorm:"type:numeric(20,2)" json:"balance"`
	GamesPlayed   int             `json:"games_played"`
	GamesWon      int             `json:"games_won"`
	TotalWinnings decimal.Decimal `gorm:"type:numeric(20,2)" json:"total_winnings"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"-"`
}
