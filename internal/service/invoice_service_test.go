package service_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"posledger/internal/billdate"
	"posledger/internal/dto"
	"posledger/internal/infra"
	"posledger/internal/model"
	"posledger/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createReq(paymentMode string, amount int64) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		Customer: dto.CustomerSnapshot{CustomerID: "CUST1", Name: "Asha Traders", Phone: "9876543210"},
		Items: []dto.InvoiceItemRequest{{
			Name:      "Rice 5kg",
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(amount),
			Amount:    decimal.NewFromInt(amount),
		}},
		Totals: dto.TotalsRequest{
			FinalAmount: decimal.NewFromInt(amount),
			PaymentMode: paymentMode,
		},
	}
}

func TestCreateAllocatesSequentialNumbers(t *testing.T) {
	repo := newMemInvoiceRepo()
	svc := service.NewInvoiceService(repo, newMemSequenceRepo(), infra.DefaultRetryConfig())

	first, err := svc.Create(context.Background(), createReq(model.PaymentCash, 100))
	require.NoError(t, err)
	assert.Equal(t, "INV1000", first.InvoiceNumber)
	assert.Equal(t, billdate.Today(), first.Date)

	second, err := svc.Create(context.Background(), createReq(model.PaymentCard, 50))
	require.NoError(t, err)
	assert.Equal(t, "INV1001", second.InvoiceNumber)
}

func TestCreateConcurrentNumbersAreUniqueAndGapFree(t *testing.T) {
	const n = 50
	repo := newMemInvoiceRepo()
	svc := service.NewInvoiceService(repo, newMemSequenceRepo(), infra.DefaultRetryConfig())

	numbers := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.Create(context.Background(), createReq(model.PaymentCash, 10))
			if err != nil {
				errs[i] = err
				return
			}
			numbers[i] = resp.InvoiceNumber
		}(i)
	}
	wg.Wait()
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}

	suffixes := make([]int, 0, n)
	seen := make(map[string]bool, n)
	for _, number := range numbers {
		assert.False(t, seen[number], "number %s allocated twice", number)
		seen[number] = true
		suffix, err := strconv.Atoi(strings.TrimPrefix(number, "INV"))
		require.NoError(t, err)
		suffixes = append(suffixes, suffix)
	}
	sort.Ints(suffixes)
	for i, suffix := range suffixes {
		assert.Equal(t, 1000+i, suffix, "gap in allocated numbers")
	}
}

func TestCreateCreditStartsDue(t *testing.T) {
	repo := newMemInvoiceRepo()
	svc := service.NewInvoiceService(repo, newMemSequenceRepo(), infra.DefaultRetryConfig())

	resp, err := svc.Create(context.Background(), createReq(model.PaymentCredit, 300))
	require.NoError(t, err)

	inv, err := svc.GetByNumber(context.Background(), resp.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, model.DueStatusDue, inv.Totals.DueStatus)
	assert.Nil(t, inv.Totals.ClearedDate)

	cash, err := svc.Create(context.Background(), createReq(model.PaymentCash, 300))
	require.NoError(t, err)
	inv, err = svc.GetByNumber(context.Background(), cash.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, model.DueStatusCleared, inv.Totals.DueStatus)
}

func TestCreateRetriesTransientStoreFailures(t *testing.T) {
	repo := newMemInvoiceRepo()
	repo.failCreates = 2
	repo.failErr = errors.New("connection reset")
	svc := service.NewInvoiceService(repo, newMemSequenceRepo(), infra.RetryConfig{Attempts: 3, Backoff: 1})

	resp, err := svc.Create(context.Background(), createReq(model.PaymentCash, 10))
	require.NoError(t, err)
	// Two attempts rolled back with their numbers; the third committed.
	assert.Equal(t, "INV1002", resp.InvoiceNumber)
}

func TestCreateSurfacesStoreUnavailableAfterRetries(t *testing.T) {
	repo := newMemInvoiceRepo()
	repo.failCreates = 10
	repo.failErr = errors.New("connection reset")
	svc := service.NewInvoiceService(repo, newMemSequenceRepo(), infra.RetryConfig{Attempts: 3, Backoff: 1})

	_, err := svc.Create(context.Background(), createReq(model.PaymentCash, 10))
	assert.ErrorIs(t, err, service.ErrStoreUnavailable)
}

func TestGetByNumberNotFound(t *testing.T) {
	svc := service.NewInvoiceService(newMemInvoiceRepo(), newMemSequenceRepo(), infra.DefaultRetryConfig())
	_, err := svc.GetByNumber(context.Background(), "INV9999")
	assert.ErrorIs(t, err, service.ErrInvoiceNotFound)
}

func TestListDueReturnsOnlyUnsettledCredit(t *testing.T) {
	repo := newMemInvoiceRepo()
	svc := service.NewInvoiceService(repo, newMemSequenceRepo(), infra.DefaultRetryConfig())

	_, err := svc.Create(context.Background(), createReq(model.PaymentCash, 100))
	require.NoError(t, err)
	credit, err := svc.Create(context.Background(), createReq(model.PaymentCredit, 200))
	require.NoError(t, err)

	due, err := svc.ListDue(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, credit.InvoiceNumber, due[0].InvoiceNumber)
}

func TestListClearedOrCreatedOnKeepsDuplicates(t *testing.T) {
	repo := newMemInvoiceRepo()
	svc := service.NewInvoiceService(repo, newMemSequenceRepo(), infra.DefaultRetryConfig())
	today := billdate.Today()

	// Credit bill created today and already cleared today: present in both
	// fetches, and this endpoint hands back the raw union.
	resp, err := svc.Create(context.Background(), createReq(model.PaymentCredit, 200))
	require.NoError(t, err)
	_, err = repo.MarkCleared(context.Background(), nil, resp.InvoiceNumber, model.PaymentCash, "N/A", today)
	require.NoError(t, err)

	union, err := svc.ListClearedOrCreatedOn(context.Background(), isoToday())
	require.NoError(t, err)
	assert.Len(t, union, 2)
}

func TestListOnDateRejectsBadDate(t *testing.T) {
	svc := service.NewInvoiceService(newMemInvoiceRepo(), newMemSequenceRepo(), infra.DefaultRetryConfig())
	_, err := svc.ListOnDate(context.Background(), "5/6/2024")
	assert.ErrorIs(t, err, service.ErrInvalidDate)
}
