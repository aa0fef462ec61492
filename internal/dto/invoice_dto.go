package dto

import "github.com/shopspring/decimal"

// JSON field names below mirror the wire format of the legacy billing API
// (cname/cphone, duepaymentMode, paidreferenceNumber); existing clients
// bind to them as-is.

// ─── Requests ────────────────────────────────────────────────────────────────

// CustomerSnapshot is embedded into the invoice at creation time.
type CustomerSnapshot struct {
	CustomerID string `json:"customerId" validate:"required"`
	Name       string `json:"cname"      validate:"required"`
	Phone      string `json:"cphone"`
}

// InvoiceItemRequest is an opaque priced line; amounts are trusted input
// computed by the catalog collaborator.
type InvoiceItemRequest struct {
	Name      string          `json:"name"      validate:"required"`
	Quantity  int             `json:"qty"       validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"price"     validate:"required"`
	GSTPct    decimal.Decimal `json:"gstPct"`
	Amount    decimal.Decimal `json:"amount"    validate:"required"`
}

type TotalsRequest struct {
	FinalAmount decimal.Decimal `json:"finalAmount" validate:"required"`
	PaymentMode string          `json:"paymentMode" validate:"required,oneof=cash card UPI credit"`
}

type CreateInvoiceRequest struct {
	Customer CustomerSnapshot     `json:"customer" validate:"required"`
	Items    []InvoiceItemRequest `json:"items"    validate:"required,min=1,dive"`
	Totals   TotalsRequest        `json:"totals"   validate:"required"`
}

// InvoiceFilter is bound from the query string of GET /v1/invoices.
type InvoiceFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type CreateInvoiceResponse struct {
	InvoiceNumber string `json:"invoiceNumber"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

type InvoiceItemResponse struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"price"`
	GSTPct    decimal.Decimal `json:"gstPct"`
	Amount    decimal.Decimal `json:"amount"`
}

type TotalsResponse struct {
	FinalAmount         decimal.Decimal `json:"finalAmount"`
	PaymentMode         string          `json:"paymentMode"`
	DueStatus           int             `json:"dueStatus"`
	DuePaymentMode      string          `json:"duepaymentMode,omitempty"`
	PaidReferenceNumber string          `json:"paidreferenceNumber,omitempty"`
	ClearedDate         *string         `json:"clearedDate,omitempty"`
}

type InvoiceResponse struct {
	InvoiceNumber string                `json:"invoiceNumber"`
	Date          string                `json:"date"`
	Time          string                `json:"time"`
	Customer      CustomerSnapshot      `json:"customer"`
	Items         []InvoiceItemResponse `json:"items"`
	Totals        TotalsResponse        `json:"totals"`
}

type InvoiceListResponse struct {
	Data  []InvoiceResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type TodayTotalsResponse struct {
	Date       string          `json:"date"`
	TotalSales decimal.Decimal `json:"totalSales"`
}
