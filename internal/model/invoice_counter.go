package model

// InvoiceCounter is the single-row table backing invoice number allocation.
// The row is mutated only with an atomic upsert-increment (see
// repository.SequenceRepository); it is never read-then-written.
type InvoiceCounter struct {
	ID    int   `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}

func (InvoiceCounter) TableName() string { return "invoice_counters" }
