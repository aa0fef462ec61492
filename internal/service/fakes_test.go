package service_test

import (
	"context"
	"strconv"
	"sync"
	"time"

	"posledger/internal/dto"
	"posledger/internal/model"
	"posledger/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory InvoiceRepository ──────────────────────────────────────────────
// Enforces the invoice_number unique index the way Postgres would, so the
// create path's duplicate handling is exercised for real.

type memInvoiceRepo struct {
	mu       sync.Mutex
	byNumber map[string]*model.Invoice
	order    []string
	// failCreates makes the next N Create calls fail with this error.
	failCreates int
	failErr     error
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{byNumber: make(map[string]*model.Invoice)}
}

func (r *memInvoiceRepo) DB() *gorm.DB { return nil }

func (r *memInvoiceRepo) Create(_ context.Context, _ *gorm.DB, inv *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreates > 0 {
		r.failCreates--
		return r.failErr
	}
	if _, exists := r.byNumber[inv.InvoiceNumber]; exists {
		return gorm.ErrDuplicatedKey
	}
	cp := *inv
	r.byNumber[inv.InvoiceNumber] = &cp
	r.order = append(r.order, inv.InvoiceNumber)
	return nil
}

func (r *memInvoiceRepo) get(number string) (*model.Invoice, error) {
	inv, ok := r.byNumber[number]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvoiceRepo) FindByNumber(_ context.Context, number string) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(number)
}

func (r *memInvoiceRepo) LockByNumber(_ context.Context, _ *gorm.DB, number string) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(number)
}

func (r *memInvoiceRepo) FindByDate(_ context.Context, dateStr string) ([]model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Invoice
	for _, n := range r.order {
		if r.byNumber[n].Date == dateStr {
			out = append(out, *r.byNumber[n])
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) FindDue(_ context.Context) ([]model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Invoice
	for _, n := range r.order {
		if r.byNumber[n].DueStatus == model.DueStatusDue {
			out = append(out, *r.byNumber[n])
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) FindClearedOn(_ context.Context, dateStr string) ([]model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Invoice
	for _, n := range r.order {
		inv := r.byNumber[n]
		if inv.DueStatus == model.DueStatusCleared && inv.ClearedDate != nil && *inv.ClearedDate == dateStr {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) MarkCleared(_ context.Context, _ *gorm.DB, number, duePaymentMode, reference, clearedDate string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byNumber[number]
	if !ok || inv.DueStatus != model.DueStatusDue {
		return 0, nil
	}
	inv.DueStatus = model.DueStatusCleared
	inv.DuePaymentMode = duePaymentMode
	inv.PaidReferenceNumber = reference
	inv.ClearedDate = &clearedDate
	return 1, nil
}

func (r *memInvoiceRepo) SumFinalAmountOn(_ context.Context, dateStr string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, n := range r.order {
		if r.byNumber[n].Date == dateStr {
			total = total.Add(r.byNumber[n].FinalAmount)
		}
	}
	return total, nil
}

func (r *memInvoiceRepo) List(_ context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]model.Invoice, 0, len(r.order))
	// Newest first
	for i := len(r.order) - 1; i >= 0; i-- {
		all = append(all, *r.byNumber[r.order[i]])
	}
	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.InvoiceRepository = (*memInvoiceRepo)(nil)

// ── In-memory SequenceRepository ─────────────────────────────────────────────

type memSequenceRepo struct {
	mu   sync.Mutex
	next int64
}

func newMemSequenceRepo() *memSequenceRepo { return &memSequenceRepo{next: 1000} }

func (r *memSequenceRepo) Next(_ context.Context, _ *gorm.DB) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.next
	r.next++
	return "INV" + strconv.FormatInt(n, 10), nil
}

var _ repository.SequenceRepository = (*memSequenceRepo)(nil)

// ── In-memory CustomerRepository ─────────────────────────────────────────────
// DebitWallet mirrors the conditional UPDATE: it refuses to overdraw and
// reports affected rows.

type memCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*model.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: make(map[string]*model.Customer)}
}

func (r *memCustomerRepo) DB() *gorm.DB { return nil }

func (r *memCustomerRepo) add(customerID string, balance decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customerID] = &model.Customer{CustomerID: customerID, Name: customerID, WalletBal: balance}
}

func (r *memCustomerRepo) balance(customerID string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customers[customerID].WalletBal
}

func (r *memCustomerRepo) FindByCustomerID(_ context.Context, customerID string) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[customerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) DebitWallet(_ context.Context, _ *gorm.DB, customerID string, amount decimal.Decimal) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[customerID]
	if !ok || c.WalletBal.LessThan(amount) {
		return 0, nil
	}
	c.WalletBal = c.WalletBal.Sub(amount)
	return 1, nil
}

func (r *memCustomerRepo) CreditWallet(_ context.Context, customerID string, amount decimal.Decimal) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[customerID]
	if !ok {
		return 0, nil
	}
	c.WalletBal = c.WalletBal.Add(amount)
	return 1, nil
}

var _ repository.CustomerRepository = (*memCustomerRepo)(nil)

// isoToday returns today's date in the ISO form the API accepts.
func isoToday() string { return time.Now().Format("2006-01-02") }
