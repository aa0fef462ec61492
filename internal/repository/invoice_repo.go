package repository

import (
	"context"

	"posledger/internal/dto"
	"posledger/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error
	FindByNumber(ctx context.Context, number string) (*model.Invoice, error)
	// LockByNumber loads the invoice row FOR UPDATE inside tx. Settlement
	// takes this lock first so concurrent clears of the same bill serialize.
	LockByNumber(ctx context.Context, tx *gorm.DB, number string) (*model.Invoice, error)
	FindByDate(ctx context.Context, dateStr string) ([]model.Invoice, error)
	FindDue(ctx context.Context) ([]model.Invoice, error)
	FindClearedOn(ctx context.Context, dateStr string) ([]model.Invoice, error)
	// MarkCleared flips the due flag and records settlement metadata. The
	// UPDATE is guarded by due_status = 1; zero affected rows means another
	// settlement got there first.
	MarkCleared(ctx context.Context, tx *gorm.DB, number, duePaymentMode, reference, clearedDate string) (int64, error)
	SumFinalAmountOn(ctx context.Context, dateStr string) (decimal.Decimal, error)
	List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error {
	return tx.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) FindByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("invoice_number = ?", number).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) LockByNumber(ctx context.Context, tx *gorm.DB, number string) (*model.Invoice, error) {
	var inv model.Invoice
	// No Preload here: FOR UPDATE must only lock the invoices row.
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("invoice_number = ?", number).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) FindByDate(ctx context.Context, dateStr string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("date = ?", dateStr).
		Order("invoice_number ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) FindDue(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("due_status = ?", model.DueStatusDue).
		Order("created_at ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) FindClearedOn(ctx context.Context, dateStr string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("due_status = ? AND cleared_date = ?", model.DueStatusCleared, dateStr).
		Order("invoice_number ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) MarkCleared(ctx context.Context, tx *gorm.DB, number, duePaymentMode, reference, clearedDate string) (int64, error) {
	res := tx.WithContext(ctx).Model(&model.Invoice{}).
		Where("invoice_number = ? AND due_status = ?", number, model.DueStatusDue).
		Updates(map[string]interface{}{
			"due_status":            model.DueStatusCleared,
			"due_payment_mode":      duePaymentMode,
			"paid_reference_number": reference,
			"cleared_date":          clearedDate,
		})
	return res.RowsAffected, res.Error
}

func (r *invoiceRepo) SumFinalAmountOn(ctx context.Context, dateStr string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("date = ?", dateStr).
		Select("COALESCE(SUM(final_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *invoiceRepo) List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Invoice{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&invoices).Error
	return invoices, total, err
}
