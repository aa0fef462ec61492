package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment channels. UPI keeps its uppercase spelling because stored rows and
// clients compare the value textually.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentUPI    = "UPI"
	PaymentCredit = "credit"
)

// Due status values for Invoice.DueStatus.
const (
	DueStatusCleared = 0
	DueStatusDue     = 1
)

// Invoice is a single retail bill. Rows are created once at sale time and
// mutated at most once more, at settlement of a credit bill; they are never
// deleted. Number, dates, customer snapshot, items and totals are write-once.
//
// Date and ClearedDate are stored as "D/M/YYYY" with no leading zeros
// (see billdate); all date-keyed queries match that text exactly.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	Date          string    `gorm:"type:varchar(10);index;not null"`
	Time          string    `gorm:"type:varchar(12);not null"`

	// Customer snapshot captured at creation — not a live reference.
	// Later edits to the customer record do not change past invoices.
	CustomerID    string `gorm:"type:varchar(40);index;not null"`
	CustomerName  string `gorm:"not null"`
	CustomerPhone string `gorm:"type:varchar(20)"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`

	FinalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMode string          `gorm:"type:varchar(10);not null"`
	// DueStatus is 1 iff the bill was taken on credit and is not yet settled.
	// Transitions 1 → 0 exactly once, via the settlement service; never back.
	DueStatus           int     `gorm:"not null;default:0;index"`
	DuePaymentMode      string  `gorm:"type:varchar(10)"`
	PaidReferenceNumber string  `gorm:"type:varchar(60)"`
	ClearedDate         *string `gorm:"type:varchar(10);index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoiceItem is an opaque priced line on an invoice. The ledger only sums
// line amounts into FinalAmount; pricing is owned by the catalog collaborator.
// GSTPct is carried as a pass-through field for the printed bill.
type InvoiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name      string          `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	GSTPct    decimal.Decimal `gorm:"type:decimal(5,2);column:gst_pct"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
