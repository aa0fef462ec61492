package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"posledger/internal/billdate"
	"posledger/internal/dto"
	"posledger/internal/infra"
	"posledger/internal/model"
	"posledger/internal/repository"

	"gorm.io/gorm"
)

type InvoiceService interface {
	Create(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error)
	GetByNumber(ctx context.Context, number string) (*dto.InvoiceResponse, error)
	List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
	ListDue(ctx context.Context) ([]dto.InvoiceResponse, error)
	ListOnDate(ctx context.Context, isoDate string) ([]dto.InvoiceResponse, error)
	// ListClearedOrCreatedOn returns the raw union of invoices created on the
	// date and credit invoices cleared on it. The union is NOT de-duplicated:
	// that is this endpoint's contract, and the cashflow aggregator performs
	// the de-duplication itself.
	ListClearedOrCreatedOn(ctx context.Context, isoDate string) ([]dto.InvoiceResponse, error)
}

type invoiceService struct {
	repo  repository.InvoiceRepository
	seq   repository.SequenceRepository
	retry infra.RetryConfig
}

func NewInvoiceService(repo repository.InvoiceRepository, seq repository.SequenceRepository, retry infra.RetryConfig) InvoiceService {
	return &invoiceService{repo: repo, seq: seq, retry: retry}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Create allocates the next invoice number and persists the invoice in one
// transaction. The allocator is an atomic counter, so a duplicate number is
// not expected; if the unique index still fires, the whole attempt is rolled
// back and retried with a fresh number.
func (s *invoiceService) Create(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	now := time.Now()
	date := billdate.Format(now)
	clock := billdate.Clock(now)

	dueStatus := model.DueStatusCleared
	if req.Totals.PaymentMode == model.PaymentCredit {
		dueStatus = model.DueStatusDue
	}

	var number string
	err := infra.Retry(ctx, s.retry, func() error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			n, err := s.seq.Next(ctx, tx)
			if err != nil {
				return err
			}

			inv := model.Invoice{
				InvoiceNumber: n,
				Date:          date,
				Time:          clock,
				CustomerID:    req.Customer.CustomerID,
				CustomerName:  req.Customer.Name,
				CustomerPhone: req.Customer.Phone,
				FinalAmount:   req.Totals.FinalAmount,
				PaymentMode:   req.Totals.PaymentMode,
				DueStatus:     dueStatus,
			}
			for _, item := range req.Items {
				inv.Items = append(inv.Items, model.InvoiceItem{
					Name:      item.Name,
					Quantity:  item.Quantity,
					UnitPrice: item.UnitPrice,
					GSTPct:    item.GSTPct,
					Amount:    item.Amount,
				})
			}

			if err := s.repo.Create(ctx, tx, &inv); err != nil {
				return err
			}
			number = n
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: retries exhausted", ErrDuplicateNumber)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &dto.CreateInvoiceResponse{InvoiceNumber: number, Date: date, Time: clock}, nil
}

func (s *invoiceService) GetByNumber(ctx context.Context, number string) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, number)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return invoiceToResponse(inv), nil
}

func (s *invoiceService) List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	invoices, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &dto.InvoiceListResponse{
		Data:  invoicesToResponses(invoices),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *invoiceService) ListDue(ctx context.Context) ([]dto.InvoiceResponse, error) {
	invoices, err := s.repo.FindDue(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return invoicesToResponses(invoices), nil
}

func (s *invoiceService) ListOnDate(ctx context.Context, isoDate string) ([]dto.InvoiceResponse, error) {
	dateStr, err := billdate.FromISO(isoDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	invoices, err := s.repo.FindByDate(ctx, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return invoicesToResponses(invoices), nil
}

func (s *invoiceService) ListClearedOrCreatedOn(ctx context.Context, isoDate string) ([]dto.InvoiceResponse, error) {
	dateStr, err := billdate.FromISO(isoDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	created, err := s.repo.FindByDate(ctx, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	cleared, err := s.repo.FindClearedOn(ctx, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return invoicesToResponses(append(created, cleared...)), nil
}

// ─── Mapping ─────────────────────────────────────────────────────────────────

func invoiceToResponse(inv *model.Invoice) *dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			GSTPct:    item.GSTPct,
			Amount:    item.Amount,
		})
	}
	return &dto.InvoiceResponse{
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.Date,
		Time:          inv.Time,
		Customer: dto.CustomerSnapshot{
			CustomerID: inv.CustomerID,
			Name:       inv.CustomerName,
			Phone:      inv.CustomerPhone,
		},
		Items: items,
		Totals: dto.TotalsResponse{
			FinalAmount:         inv.FinalAmount,
			PaymentMode:         inv.PaymentMode,
			DueStatus:           inv.DueStatus,
			DuePaymentMode:      inv.DuePaymentMode,
			PaidReferenceNumber: inv.PaidReferenceNumber,
			ClearedDate:         inv.ClearedDate,
		},
	}
}

func invoicesToResponses(invoices []model.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, *invoiceToResponse(&invoices[i]))
	}
	return out
}
