package repository

import (
	"context"

	"posledger/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	FindByCustomerID(ctx context.Context, customerID string) (*model.Customer, error)
	// DebitWallet subtracts amount in a single conditional UPDATE guarded by
	// wallet_bal >= amount. Zero affected rows means the balance was
	// insufficient (or the customer vanished); the wallet is never driven
	// negative and there is no check-then-act window.
	DebitWallet(ctx context.Context, tx *gorm.DB, customerID string, amount decimal.Decimal) (int64, error)
	CreditWallet(ctx context.Context, customerID string, amount decimal.Decimal) (int64, error)
	DB() *gorm.DB
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) DB() *gorm.DB { return r.db }

func (r *customerRepo) FindByCustomerID(ctx context.Context, customerID string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) DebitWallet(ctx context.Context, tx *gorm.DB, customerID string, amount decimal.Decimal) (int64, error) {
	db := tx
	if db == nil {
		db = r.db
	}
	res := db.WithContext(ctx).Model(&model.Customer{}).
		Where("customer_id = ? AND wallet_bal >= ?", customerID, amount).
		Update("wallet_bal", gorm.Expr("wallet_bal - ?", amount))
	return res.RowsAffected, res.Error
}

func (r *customerRepo) CreditWallet(ctx context.Context, customerID string, amount decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("customer_id = ?", customerID).
		Update("wallet_bal", gorm.Expr("wallet_bal + ?", amount))
	return res.RowsAffected, res.Error
}
