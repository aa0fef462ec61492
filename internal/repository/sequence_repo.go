package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// sequenceSeed is the number of the very first invoice: INV1000.
const sequenceSeed = 1000

type SequenceRepository interface {
	// Next allocates the next invoice number. Run it inside the same
	// transaction that inserts the invoice: the counter row lock then
	// serializes concurrent allocations, and a rolled-back create takes its
	// number back with it, so committed numbers stay gap-free.
	Next(ctx context.Context, tx *gorm.DB) (string, error)
}

type sequenceRepo struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) SequenceRepository { return &sequenceRepo{db: db} }

func (r *sequenceRepo) Next(ctx context.Context, tx *gorm.DB) (string, error) {
	db := tx
	if db == nil {
		db = r.db
	}
	// Single atomic fetch-and-add. Seeding and incrementing in one statement
	// avoids any read-last-then-write window.
	var value int64
	err := db.WithContext(ctx).Raw(`
		INSERT INTO invoice_counters (id, value) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET value = invoice_counters.value + 1
		RETURNING value`, sequenceSeed).Scan(&value).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV%d", value), nil
}
