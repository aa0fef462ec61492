package dto

import "github.com/shopspring/decimal"

// CashflowSummary is the per-channel reconciliation for one date.
//
// Every invoice created or cleared on the date lands in exactly one bucket:
// credit bills cleared that day are classified by the mode used to clear
// them, everything else by its original payment mode. Total sums the
// collected buckets only; CreditOutstanding reports credit issued that day
// and still due (money not yet collected).
type CashflowSummary struct {
	Date string `json:"date"`

	CashNewSale decimal.Decimal `json:"cashNewSale"`
	CardNewSale decimal.Decimal `json:"cardNewSale"`
	UPINewSale  decimal.Decimal `json:"upiNewSale"`

	CashFromCredit decimal.Decimal `json:"cashFromCredit"`
	CardFromCredit decimal.Decimal `json:"cardFromCredit"`
	UPIFromCredit  decimal.Decimal `json:"upiFromCredit"`

	CreditClearedTotal decimal.Decimal `json:"creditClearedTotal"`
	CreditOutstanding  decimal.Decimal `json:"creditOutstanding"`
	Total              decimal.Decimal `json:"total"`
}
