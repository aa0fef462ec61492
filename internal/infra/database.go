package infra

import (
	"fmt"

	"posledger/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the ledger tables, then applies idempotent SQL patches that GORM cannot
// express (CHECK constraints, partial indexes).
//
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey; the invoice service relies on that to report a
// duplicate invoice number instead of a generic store failure.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Customer{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.InvoiceCounter{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
// Each statement is guarded by an existence check so re-running on an
// already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Backstop for the wallet invariant: the debit path already refuses to
		// overdraw, this constraint catches any future writer that does not.
		{"wallet non-negative check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_customers_wallet_bal_non_negative') THEN
    ALTER TABLE customers
      ADD CONSTRAINT chk_customers_wallet_bal_non_negative CHECK (wallet_bal >= 0);
  END IF;
END $$`},
		// Partial index for the due-bills listing; due invoices are a small,
		// hot subset of the ledger.
		{"partial index on due invoices", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_invoices_due') THEN
    CREATE INDEX idx_invoices_due ON invoices (created_at) WHERE due_status = 1;
  END IF;
END $$`},
		// Composite index serving FindClearedOn.
		{"index on cleared_date lookups", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_invoices_cleared_on') THEN
    CREATE INDEX idx_invoices_cleared_on ON invoices (cleared_date) WHERE due_status = 0;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
