package service

import (
	"context"
	"errors"
	"fmt"

	"posledger/internal/billdate"
	"posledger/internal/dto"
	"posledger/internal/infra"
	"posledger/internal/model"
	"posledger/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SettlementService transitions a due invoice to cleared, funding it from the
// customer wallet. The debit and the invoice flip commit together or not at
// all; a failed Clear leaves both records exactly as they were.
type SettlementService interface {
	Clear(ctx context.Context, invoiceNumber string, req dto.ClearBillRequest) (*dto.InvoiceResponse, error)
}

type settlementService struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	retry     infra.RetryConfig
}

func NewSettlementService(invoices repository.InvoiceRepository, customers repository.CustomerRepository, retry infra.RetryConfig) SettlementService {
	return &settlementService{invoices: invoices, customers: customers, retry: retry}
}

// Clear settles one due bill:
//
//  1. Lock the invoice row; reject if missing or no longer due.
//  2. Resolve the customer from the invoice's snapshot.
//  3. Debit the wallet with a conditional UPDATE (never below zero).
//  4. Flip due_status and record how the bill was cleared.
//
// Steps 1-4 run in one transaction. Two concurrent clears of the same bill
// serialize on the row lock, and the loser sees due_status already 0; clears
// of different bills for the same customer serialize on the wallet row, so
// the balance guard never evaluates stale data.
func (s *settlementService) Clear(ctx context.Context, invoiceNumber string, req dto.ClearBillRequest) (*dto.InvoiceResponse, error) {
	if err := validateClearRequest(req); err != nil {
		return nil, err
	}
	reference := req.ReferenceNumber
	if reference == "" {
		reference = "N/A"
	}
	clearedDate := billdate.Today()

	err := infra.Retry(ctx, s.retry, func() error {
		return runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
			inv, err := s.invoices.LockByNumber(ctx, tx, invoiceNumber)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return infra.Permanent(fmt.Errorf("%w: %s", ErrInvoiceNotFound, invoiceNumber))
				}
				return err
			}
			if inv.DueStatus != model.DueStatusDue {
				return infra.Permanent(fmt.Errorf("%w: %s", ErrAlreadyCleared, invoiceNumber))
			}

			if _, err := s.customers.FindByCustomerID(ctx, inv.CustomerID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return infra.Permanent(fmt.Errorf("%w: %s", ErrCustomerNotFound, inv.CustomerID))
				}
				return err
			}

			debited, err := s.customers.DebitWallet(ctx, tx, inv.CustomerID, inv.FinalAmount)
			if err != nil {
				return err
			}
			if debited == 0 {
				return infra.Permanent(fmt.Errorf("%w: bill %s needs %s", ErrInsufficientBalance, invoiceNumber, inv.FinalAmount))
			}

			flipped, err := s.invoices.MarkCleared(ctx, tx, invoiceNumber, req.PaymentMode, reference, clearedDate)
			if err != nil {
				return err
			}
			if flipped == 0 {
				// Lost a race despite the lock; roll the debit back with the tx.
				return infra.Permanent(fmt.Errorf("%w: %s", ErrAlreadyCleared, invoiceNumber))
			}
			return nil
		})
	})
	if err != nil {
		if isLedgerError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	log.Info().
		Str("invoice_number", invoiceNumber).
		Str("due_payment_mode", req.PaymentMode).
		Str("cleared_date", clearedDate).
		Msg("bill cleared")

	return s.clearedResponse(ctx, invoiceNumber)
}

func validateClearRequest(req dto.ClearBillRequest) error {
	switch req.PaymentMode {
	case model.PaymentCash:
		return nil
	case model.PaymentCard, model.PaymentUPI:
		if req.ReferenceNumber == "" {
			return fmt.Errorf("%w: reference number required for %s", ErrInvalidPaymentMode, req.PaymentMode)
		}
		return nil
	case "":
		return fmt.Errorf("%w: payment mode is required", ErrInvalidPaymentMode)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPaymentMode, req.PaymentMode)
	}
}

// isLedgerError reports whether err is one of the taxonomy sentinels, i.e. a
// final answer rather than a transient store failure.
func isLedgerError(err error) bool {
	for _, sentinel := range []error{
		ErrInvoiceNotFound, ErrCustomerNotFound, ErrAlreadyCleared,
		ErrInsufficientBalance, ErrInvalidPaymentMode, ErrDuplicateNumber,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func (s *settlementService) clearedResponse(ctx context.Context, invoiceNumber string) (*dto.InvoiceResponse, error) {
	inv, err := s.invoices.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return invoiceToResponse(inv), nil
}
