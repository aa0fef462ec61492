package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer holds the prepaid wallet used to fund credit-bill settlement.
// The directory itself (registration, edits) is owned by a collaborator;
// this core only reads customers and debits WalletBal.
//
// Invariant: WalletBal >= 0 after any committed operation. The debit path
// enforces it with a conditional UPDATE, and the schema carries a CHECK
// constraint as a backstop.
type Customer struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID string          `gorm:"uniqueIndex;type:varchar(40);not null"`
	Name       string          `gorm:"not null"`
	Phone      string          `gorm:"type:varchar(20)"`
	WalletBal  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
