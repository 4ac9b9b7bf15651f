package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionBet         = "bet"
	TransactionDeposit     = "deposit"
	TransactionWin         = "win"
	TransactionLoss        = "loss"
	TransactionRefund      = "refund"
	TransactionPlatformFee = "platform_fee"

	TransactionCompleted = "completed"
	TransactionPending   = "pending"
	TransactionFailed    = "failed"
)

// Transaction is one append-only audit entry. Rows are never updated after
// creation; balance-affecting entries carry the before/after snapshot.
type Transaction struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	UserID        string          `gorm:"size:36;index" json:"user_id"`
	GameID        *string         `gorm:"size:36;index" json:"game_id,omitempty"`
	Type          string          `gorm:"size:16" json:"type"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2)" json:"amount"`
	Status        string          `gorm:"size:16" json:"status"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(20,2)" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(20,2)" json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}
