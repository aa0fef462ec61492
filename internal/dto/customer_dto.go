package dto

import "github.com/shopspring/decimal"

type WalletResponse struct {
	CustomerID string          `json:"customerId"`
	Name       string          `json:"cname"`
	WalletBal  decimal.Decimal `json:"walletBal"`
}

type CreditWalletRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}
