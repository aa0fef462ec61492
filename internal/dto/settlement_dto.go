package dto

// ClearBillRequest settles a due invoice against the customer wallet.
// ReferenceNumber is required for non-cash modes; that cross-field rule is
// enforced in the settlement service so it surfaces as the same error
// regardless of transport.
type ClearBillRequest struct {
	PaymentMode     string `json:"paymentMode"     validate:"required,oneof=cash card UPI"`
	ReferenceNumber string `json:"referenceNumber"`
}
