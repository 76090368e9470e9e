package biz

import (
	"context"
	"sync"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"

	"github.com/shopspring/decimal"
)

// memCostRepo is an in-memory CostRecordRepository with identity-tuple dedup,
// mirroring the ON CONFLICT DO NOTHING semantics of the postgres repo.
type memCostRepo struct {
	mu           sync.Mutex
	records      []*domain.CostRecord
	index        map[domain.CostRecordIdentity]bool
	insertErrFor map[string]error // fails inserts for specific tenants
}

func newMemCostRepo() *memCostRepo {
	return &memCostRepo{index: make(map[domain.CostRecordIdentity]bool)}
}

func (r *memCostRepo) Insert(ctx context.Context, records []*domain.CostRecord) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(records) > 0 {
		if err := r.insertErrFor[records[0].TenantID]; err != nil {
			return 0, err
		}
	}

	written := 0
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return 0, err
		}
		key := rec.IdentityKey()
		if r.index[key] {
			continue
		}
		r.index[key] = true
		r.records = append(r.records, rec)
		written++
	}
	return written, nil
}

func (r *memCostRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.CostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.CostRecord
	for _, rec := range r.records {
		if rec.TenantID == tenantID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memCostRepo) SumByService(ctx context.Context, tenantID string) (map[string]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := make(map[string]decimal.Decimal)
	for _, rec := range r.records {
		if rec.TenantID != tenantID {
			continue
		}
		summary[rec.ServiceName] = summary[rec.ServiceName].Add(rec.Cost)
	}
	return summary, nil
}

func (r *memCostRepo) SumTotal(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := decimal.Zero
	for _, rec := range r.records {
		if rec.TenantID == tenantID {
			total = total.Add(rec.Cost)
		}
	}
	return total, nil
}

// memTenantDir is an in-memory TenantDirectory.
type memTenantDir struct {
	tenants []*domain.Tenant
	listErr error
}

func (d *memTenantDir) ListTenants(ctx context.Context) ([]*domain.Tenant, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	return d.tenants, nil
}

func (d *memTenantDir) GetTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	for _, t := range d.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTenantNotFound
}

func (d *memTenantDir) SetRoleARN(ctx context.Context, id, roleARN string) error {
	t, err := d.GetTenant(ctx, id)
	if err != nil {
		return err
	}
	t.AWSRoleARN = roleARN
	return nil
}

// memRecRepo is an in-memory RecommendationRepository.
type memRecRepo struct {
	mu   sync.Mutex
	recs []*domain.Recommendation
	err  error
}

func (r *memRecRepo) Create(ctx context.Context, rec *domain.Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.recs = append(r.recs, rec)
	return nil
}

func (r *memRecRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Recommendation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Recommendation
	for _, rec := range r.recs {
		if rec.TenantID == tenantID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// fakeBroker fails credential acquisition for the configured tenants.
type fakeBroker struct {
	mu      sync.Mutex
	failFor map[string]error
	calls   []string
}

func (b *fakeBroker) Acquire(ctx context.Context, tenant *domain.Tenant) (*domain.ScopedCredential, error) {
	b.mu.Lock()
	b.calls = append(b.calls, tenant.ID)
	b.mu.Unlock()

	if !tenant.HasDelegation() {
		return nil, domain.ErrNoDelegationConfigured
	}
	if err, ok := b.failFor[tenant.ID]; ok {
		return nil, err
	}
	return &domain.ScopedCredential{
		AccessKeyID:     "AKIA" + tenant.ID,
		SecretAccessKey: "secret",
		SessionToken:    "token",
		Expiration:      time.Now().Add(time.Hour),
	}, nil
}

// fakeSource returns canned records, or an error, and captures the window.
type fakeSource struct {
	mu      sync.Mutex
	records []domain.NormalizedCostRecord
	err     error
	windows [][2]time.Time
}

func (s *fakeSource) FetchUsage(ctx context.Context, cred *domain.ScopedCredential, start, end time.Time) ([]domain.NormalizedCostRecord, error) {
	s.mu.Lock()
	s.windows = append(s.windows, [2]time.Time{start, end})
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func day(s string) time.Time {
	t, err := time.ParseInLocation(domain.DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func normRecord(service, region, usageType, cost, start string) domain.NormalizedCostRecord {
	return domain.NormalizedCostRecord{
		ServiceName: service,
		Region:      region,
		UsageType:   usageType,
		Cost:        decimal.RequireFromString(cost),
		PeriodStart: day(start),
		PeriodEnd:   day(start).AddDate(0, 0, 1),
	}
}
