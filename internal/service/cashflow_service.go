package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"posledger/internal/billdate"
	"posledger/internal/dto"
	"posledger/internal/model"
	"posledger/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CashflowService produces the per-channel cash reconciliation for a date.
// It is read-only; snapshot consistency with in-flight settlements is
// acceptable because the figures feed an operational dashboard, not the
// ledger of record.
type CashflowService interface {
	Summarize(ctx context.Context, isoDate string) (*dto.CashflowSummary, error)
	TodayTotals(ctx context.Context) (*dto.TodayTotalsResponse, error)
}

type cashflowService struct {
	invoices repository.InvoiceRepository
	rdb      *redis.Client // nil disables caching (unit test mode)
	cacheTTL time.Duration
}

func NewCashflowService(invoices repository.InvoiceRepository, rdb *redis.Client, cacheTTL time.Duration) CashflowService {
	return &cashflowService{invoices: invoices, rdb: rdb, cacheTTL: cacheTTL}
}

func summaryCacheKey(dateStr string) string { return "cashflow:summary:" + dateStr }

func (s *cashflowService) Summarize(ctx context.Context, isoDate string) (*dto.CashflowSummary, error) {
	dateStr, err := billdate.FromISO(isoDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	if cached := s.cacheGet(ctx, dateStr); cached != nil {
		return cached, nil
	}

	created, err := s.invoices.FindByDate(ctx, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	cleared, err := s.invoices.FindClearedOn(ctx, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// De-duplicate by invoice number: a credit bill created and cleared the
	// same day appears in both fetches but must be classified exactly once.
	seen := make(map[string]bool, len(created)+len(cleared))
	var invoices []model.Invoice
	for _, inv := range append(created, cleared...) {
		if seen[inv.InvoiceNumber] {
			continue
		}
		seen[inv.InvoiceNumber] = true
		invoices = append(invoices, inv)
	}

	summary := buildSummary(dateStr, invoices)
	s.cacheSet(ctx, dateStr, summary)
	return summary, nil
}

// buildSummary classifies every invoice into exactly one bucket.
//
// A credit bill cleared on the target date counts under the channel used to
// clear it. Anything else counts under its original payment mode; "credit"
// there means money not yet collected, reported as CreditOutstanding and
// excluded from Total.
func buildSummary(dateStr string, invoices []model.Invoice) *dto.CashflowSummary {
	sum := &dto.CashflowSummary{Date: dateStr}

	for i := range invoices {
		inv := &invoices[i]
		amount := inv.FinalAmount

		clearedToday := inv.DueStatus == model.DueStatusCleared &&
			inv.ClearedDate != nil && *inv.ClearedDate == dateStr &&
			inv.PaymentMode == model.PaymentCredit

		if clearedToday {
			switch inv.DuePaymentMode {
			case model.PaymentCash:
				sum.CashFromCredit = sum.CashFromCredit.Add(amount)
			case model.PaymentCard:
				sum.CardFromCredit = sum.CardFromCredit.Add(amount)
			case model.PaymentUPI:
				sum.UPIFromCredit = sum.UPIFromCredit.Add(amount)
			}
			sum.CreditClearedTotal = sum.CreditClearedTotal.Add(amount)
			continue
		}

		switch inv.PaymentMode {
		case model.PaymentCash:
			sum.CashNewSale = sum.CashNewSale.Add(amount)
		case model.PaymentCard:
			sum.CardNewSale = sum.CardNewSale.Add(amount)
		case model.PaymentUPI:
			sum.UPINewSale = sum.UPINewSale.Add(amount)
		case model.PaymentCredit:
			sum.CreditOutstanding = sum.CreditOutstanding.Add(amount)
		}
	}

	sum.Total = decimal.Sum(
		sum.CashNewSale, sum.CardNewSale, sum.UPINewSale,
		sum.CashFromCredit, sum.CardFromCredit, sum.UPIFromCredit,
	)
	return sum
}

func (s *cashflowService) TodayTotals(ctx context.Context) (*dto.TodayTotalsResponse, error) {
	today := billdate.Today()
	total, err := s.invoices.SumFinalAmountOn(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &dto.TodayTotalsResponse{Date: today, TotalSales: total}, nil
}

// ─── Cache-aside ─────────────────────────────────────────────────────────────
// Redis is never authoritative: any cache failure is logged and the request
// falls through to the store.

func (s *cashflowService) cacheGet(ctx context.Context, dateStr string) *dto.CashflowSummary {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, summaryCacheKey(dateStr)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("date", dateStr).Msg("cashflow cache read failed")
		}
		return nil
	}
	var summary dto.CashflowSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		log.Warn().Err(err).Str("date", dateStr).Msg("cashflow cache entry corrupt")
		return nil
	}
	return &summary
}

func (s *cashflowService) cacheSet(ctx context.Context, dateStr string, summary *dto.CashflowSummary) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, summaryCacheKey(dateStr), data, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("date", dateStr).Msg("cashflow cache write failed")
	}
}
