package biz

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func activeTenant(id string) *domain.Tenant {
	return &domain.Tenant{
		ID:         id,
		Name:       id,
		AWSRoleARN: "arn:aws:iam::123456789012:role/" + id,
		Status:     domain.TenantStatusActive,
	}
}

func newTestSweeper(dir *memTenantDir, broker *fakeBroker, source *fakeSource, repo *memCostRepo) *IngestionSweeper {
	return NewIngestionSweeper(
		dir, broker, source, NewLedgerUsecase(repo),
		4, time.Minute, zap.NewNop(),
	)
}

func TestSweepFetchWindow(t *testing.T) {
	// D 01:00 触发 → 采集 [D-1, D)
	trigger := time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC)
	start, end := FetchWindow(trigger)
	assert.Equal(t, day("2026-08-30"), start)
	assert.Equal(t, day("2026-08-31"), end)
}

func TestSweepPassesWindowToSource(t *testing.T) {
	dir := &memTenantDir{tenants: []*domain.Tenant{activeTenant("tenant-a")}}
	broker := &fakeBroker{}
	source := &fakeSource{records: sampleRecords()}
	repo := newMemCostRepo()

	trigger := time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC)
	report, err := newTestSweeper(dir, broker, source, repo).Sweep(context.Background(), trigger)
	require.NoError(t, err)
	require.Equal(t, 1, report.Processed)

	require.Len(t, source.windows, 1)
	assert.Equal(t, day("2026-08-30"), source.windows[0][0])
	assert.Equal(t, day("2026-08-31"), source.windows[0][1])
}

func TestSweepFailureIsolation(t *testing.T) {
	// 租户 A 凭证交换失败，租户 B 必须在同一轮被正常采集
	dir := &memTenantDir{tenants: []*domain.Tenant{
		activeTenant("tenant-a"),
		activeTenant("tenant-b"),
	}}
	broker := &fakeBroker{failFor: map[string]error{
		"tenant-a": fmt.Errorf("%w: boom", domain.ErrCredentialExchangeFailed),
	}}
	source := &fakeSource{records: sampleRecords()}
	repo := newMemCostRepo()

	report, err := newTestSweeper(dir, broker, source, repo).Sweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 3, report.Written)

	recordsB, err := repo.ListByTenant(context.Background(), "tenant-b")
	require.NoError(t, err)
	assert.Len(t, recordsB, 3)

	recordsA, err := repo.ListByTenant(context.Background(), "tenant-a")
	require.NoError(t, err)
	assert.Empty(t, recordsA)
}

func TestSweepSkipsTenantsWithoutDelegation(t *testing.T) {
	noRole := activeTenant("tenant-norole")
	noRole.AWSRoleARN = ""
	dir := &memTenantDir{tenants: []*domain.Tenant{noRole, activeTenant("tenant-b")}}
	broker := &fakeBroker{}
	source := &fakeSource{records: sampleRecords()}
	repo := newMemCostRepo()

	report, err := newTestSweeper(dir, broker, source, repo).Sweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	// 未配置委托角色是预期情况：计为跳过而不是失败
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 0, report.Failed)
}

func TestSweepSkipsSuspendedTenants(t *testing.T) {
	suspended := activeTenant("tenant-s")
	suspended.Status = domain.TenantStatusSuspended
	dir := &memTenantDir{tenants: []*domain.Tenant{suspended}}
	broker := &fakeBroker{}
	source := &fakeSource{}
	repo := newMemCostRepo()

	report, err := newTestSweeper(dir, broker, source, repo).Sweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, broker.calls, "suspended tenant must not reach the broker")
}

func TestSweepMalformedDataAppendsNothing(t *testing.T) {
	dir := &memTenantDir{tenants: []*domain.Tenant{activeTenant("tenant-a")}}
	broker := &fakeBroker{}
	source := &fakeSource{err: fmt.Errorf("%w: non-numeric amount", domain.ErrMalformedUsageData)}
	repo := newMemCostRepo()

	report, err := newTestSweeper(dir, broker, source, repo).Sweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Written)

	records, err := repo.ListByTenant(context.Background(), "tenant-a")
	require.NoError(t, err)
	assert.Empty(t, records, "malformed response must not partially ingest")
}

func TestSweepAppendFailureDoesNotAbortSweep(t *testing.T) {
	// 租户 A 写台账失败：计为失败但不中断扫描，租户 B 正常写入
	dir := &memTenantDir{tenants: []*domain.Tenant{
		activeTenant("tenant-a"),
		activeTenant("tenant-b"),
	}}
	broker := &fakeBroker{}
	source := &fakeSource{records: sampleRecords()}
	repo := newMemCostRepo()
	repo.insertErrFor = map[string]error{
		"tenant-a": fmt.Errorf("%w: disk full", domain.ErrStorageWriteFailed),
	}

	report, err := newTestSweeper(dir, broker, source, repo).Sweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 3, report.Written)

	var resultA *TenantResult
	for i := range report.Results {
		if report.Results[i].TenantID == "tenant-a" {
			resultA = &report.Results[i]
		}
	}
	require.NotNil(t, resultA)
	assert.ErrorIs(t, resultA.Err, domain.ErrStorageWriteFailed)
	assert.Equal(t, 0, resultA.Written)

	recordsB, err := repo.ListByTenant(context.Background(), "tenant-b")
	require.NoError(t, err)
	assert.Len(t, recordsB, 3)
}

func TestSweepListTenantsFailureIsFatal(t *testing.T) {
	dir := &memTenantDir{listErr: errors.New("db down")}
	sweeper := newTestSweeper(dir, &fakeBroker{}, &fakeSource{}, newMemCostRepo())

	_, err := sweeper.Sweep(context.Background(), time.Now().UTC())
	assert.Error(t, err)
}

func TestSweepRetryNextCycleIsIdempotent(t *testing.T) {
	// 同一窗口扫两轮：第二轮写入 0 条
	dir := &memTenantDir{tenants: []*domain.Tenant{activeTenant("tenant-a")}}
	broker := &fakeBroker{}
	source := &fakeSource{records: sampleRecords()}
	repo := newMemCostRepo()
	sweeper := newTestSweeper(dir, broker, source, repo)

	trigger := time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC)

	report, err := sweeper.Sweep(context.Background(), trigger)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Written)

	report, err = sweeper.Sweep(context.Background(), trigger)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Written)
	assert.Equal(t, 1, report.Processed)
}
