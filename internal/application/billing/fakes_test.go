package billing

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/billing"
	"github.com/mealflow/backend/internal/domain/shared"
)

// fakeInvoiceRepo is an in-memory InvoiceRepository. nextOverride simulates
// a stale read in NextInvoiceNumber: a racing writer has already claimed the
// returned number, so the subsequent Create hits the uniqueness check.
type fakeInvoiceRepo struct {
	mu           sync.Mutex
	invoices     map[uuid.UUID]*billing.Invoice
	byNumber     map[string]uuid.UUID
	nextOverride []string
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[uuid.UUID]*billing.Invoice),
		byNumber: make(map[string]uuid.UUID),
	}
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return inv, nil
}

func (r *fakeInvoiceRepo) FindByNumber(_ context.Context, number string) (*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byNumber[number]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r.invoices[id], nil
}

func (r *fakeInvoiceRepo) FindByCompany(_ context.Context, companyID uuid.UUID) ([]billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []billing.Invoice
	for _, inv := range r.invoices {
		if inv.CompanyID == companyID {
			result = append(result, *inv)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].InvoiceNumber < result[j].InvoiceNumber
	})
	return result, nil
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byNumber[inv.InvoiceNumber]; taken {
		return billing.ErrNumberingConflict
	}
	r.invoices[inv.ID] = inv
	r.byNumber[inv.InvoiceNumber] = inv.ID
	return nil
}

func (r *fakeInvoiceRepo) Save(_ context.Context, inv *billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[inv.ID]; !ok {
		return shared.ErrNotFound
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *fakeInvoiceRepo) NextInvoiceNumber(_ context.Context, ref time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.nextOverride) > 0 {
		number := r.nextOverride[0]
		r.nextOverride = r.nextOverride[1:]
		return number, nil
	}
	prefix := billing.InvoiceNumberPrefix(ref)
	maxSeq := 0
	for number := range r.byNumber {
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		if seq, err := billing.SequenceFromInvoiceNumber(number); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return billing.FormatInvoiceNumber(ref, maxSeq+1), nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []billing.AuditLogEntry
}

func (r *fakeAuditRepo) Append(_ context.Context, entry *billing.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) FindByEntity(_ context.Context, entityType string, entityID uuid.UUID) ([]billing.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []billing.AuditLogEntry
	for _, e := range r.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			result = append(result, e)
		}
	}
	return result, nil
}

// fakeUnitOfWork runs the function against the shared fakes. Rollback is not
// modeled; transactional atomicity is covered by the persistence tests.
type fakeUnitOfWork struct {
	invoices *fakeInvoiceRepo
	audit    *fakeAuditRepo
}

func (u *fakeUnitOfWork) Invoices() billing.InvoiceRepository { return u.invoices }
func (u *fakeUnitOfWork) AuditLog() billing.AuditLogRepository {
	return u.audit
}

func (u *fakeUnitOfWork) Execute(_ context.Context, fn func(tx billing.TxRepositories) error) error {
	return fn(u)
}

type fakeCompanySource struct {
	companies map[uuid.UUID]billing.Company
	order     []uuid.UUID
	listErr   error
}

func newFakeCompanySource(companies ...billing.Company) *fakeCompanySource {
	s := &fakeCompanySource{companies: make(map[uuid.UUID]billing.Company)}
	for _, c := range companies {
		s.companies[c.ID] = c
		s.order = append(s.order, c.ID)
	}
	return s
}

func (s *fakeCompanySource) FindByID(_ context.Context, id uuid.UUID) (*billing.Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return nil, billing.ErrCompanyNotFound
	}
	return &c, nil
}

func (s *fakeCompanySource) FindActive(_ context.Context) ([]billing.Company, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var active []billing.Company
	for _, id := range s.order {
		if c := s.companies[id]; c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

type fakeOrderSource struct {
	orders map[uuid.UUID][]billing.Order
}

func newFakeOrderSource() *fakeOrderSource {
	return &fakeOrderSource{orders: make(map[uuid.UUID][]billing.Order)}
}

func (s *fakeOrderSource) add(order billing.Order) {
	s.orders[order.CompanyID] = append(s.orders[order.CompanyID], order)
}

func (s *fakeOrderSource) FindBillableOrders(_ context.Context, companyID uuid.UUID, start, end time.Time) ([]billing.Order, error) {
	var result []billing.Order
	for _, o := range s.orders[companyID] {
		if !o.Status.IsBillable() {
			continue
		}
		if o.CreatedAt.Before(start) || o.CreatedAt.After(end) {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []string
	err      error
}

func (n *fakeNotifier) InvoiceIssued(_ context.Context, inv *billing.Invoice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.notified = append(n.notified, inv.InvoiceNumber)
	return nil
}
