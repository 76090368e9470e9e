package biz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"
	"github.com/narayanvashishtha/cloud-cost-tracker/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// TenantResult 单个租户的采集结果
type TenantResult struct {
	TenantID string
	Written  int
	Skipped  bool
	Err      error
}

// SweepReport 一次采集扫描的汇总报告
type SweepReport struct {
	StartedAt time.Time
	Duration  time.Duration
	Results   []TenantResult
	Processed int // 成功采集的租户数
	Skipped   int // 跳过的租户数（未配置委托角色或已暂停）
	Failed    int // 失败的租户数
	Written   int // 实际写入的记录总数
}

// IngestionSweeper 采集扫描器
//
// 每次触发对全部租户做一轮扫描：取凭证 → 拉取用量 → 写入台账。
// 租户之间相互独立，单个租户的失败被捕获进 TenantResult，绝不中断整轮
// 扫描；只有租户列表本身拉取失败才放弃本轮。周期内不重试——Append 幂等，
// 失败的租户下个周期自然补上。
type IngestionSweeper struct {
	tenants       domain.TenantDirectory
	broker        domain.CredentialBroker
	source        domain.CostSource
	ledger        *LedgerUsecase
	workerLimit   int64
	tenantTimeout time.Duration
	log           *zap.Logger
}

// NewIngestionSweeper 创建采集扫描器
func NewIngestionSweeper(
	tenants domain.TenantDirectory,
	broker domain.CredentialBroker,
	source domain.CostSource,
	ledger *LedgerUsecase,
	workerLimit int,
	tenantTimeout time.Duration,
	logger *zap.Logger,
) *IngestionSweeper {
	if workerLimit <= 0 {
		workerLimit = 8
	}
	return &IngestionSweeper{
		tenants:       tenants,
		broker:        broker,
		source:        source,
		ledger:        ledger,
		workerLimit:   int64(workerLimit),
		tenantTimeout: tenantTimeout,
		log:           logger,
	}
}

// FetchWindow 计算触发时刻对应的采集窗口：上一个完整天 [D-1, D)
func FetchWindow(now time.Time) (start, end time.Time) {
	end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start = end.AddDate(0, 0, -1)
	return start, end
}

// Sweep 执行一轮采集扫描
func (s *IngestionSweeper) Sweep(ctx context.Context, now time.Time) (*SweepReport, error) {
	started := time.Now()
	start, end := FetchWindow(now)

	tenants, err := s.tenants.ListTenants(ctx)
	if err != nil {
		// 本轮唯一的致命错误：连租户都列不出来
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	s.log.Info("ingestion sweep started",
		zap.Int("tenants", len(tenants)),
		zap.String("window_start", start.Format(domain.DateLayout)),
		zap.String("window_end", end.Format(domain.DateLayout)),
	)

	// 有界并发：租户之间没有依赖，并发数受信号量约束，避免压垮外部 API
	sem := semaphore.NewWeighted(s.workerLimit)
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]TenantResult, 0, len(tenants))

	for _, tenant := range tenants {
		if err := sem.Acquire(ctx, 1); err != nil {
			// 进程关闭中：放弃未开始的租户，已写入的部分下个周期幂等补齐
			s.log.Warn("sweep interrupted", zap.Error(err))
			break
		}

		wg.Add(1)
		go func(tenant *domain.Tenant) {
			defer wg.Done()
			defer sem.Release(1)

			result := s.processTenant(ctx, tenant, start, end)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(tenant)
	}
	wg.Wait()

	report := &SweepReport{
		StartedAt: started,
		Duration:  time.Since(started),
		Results:   results,
	}
	for _, r := range results {
		switch {
		case r.Skipped:
			report.Skipped++
		case r.Err != nil:
			report.Failed++
		default:
			report.Processed++
			report.Written += r.Written
		}
	}

	monitoring.SweepDuration.WithLabelValues("ingestion").Observe(report.Duration.Seconds())
	monitoring.CostRecordsWritten.Add(float64(report.Written))

	s.log.Info("ingestion sweep completed",
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("written", report.Written),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// processTenant 处理单个租户，所有错误收敛进返回值
func (s *IngestionSweeper) processTenant(ctx context.Context, tenant *domain.Tenant, start, end time.Time) TenantResult {
	result := TenantResult{TenantID: tenant.ID}

	if tenant.Status != domain.TenantStatusActive {
		result.Skipped = true
		monitoring.SweepTenants.WithLabelValues("ingestion", "skipped").Inc()
		s.log.Debug("tenant suspended, skipping", zap.String("tenant_id", tenant.ID))
		return result
	}

	if s.tenantTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.tenantTimeout)
		defer cancel()
	}

	cred, err := s.broker.Acquire(ctx, tenant)
	if err != nil {
		if errors.Is(err, domain.ErrNoDelegationConfigured) {
			// 预期情况：不算失败
			result.Skipped = true
			monitoring.SweepTenants.WithLabelValues("ingestion", "skipped").Inc()
			s.log.Debug("no delegation configured, skipping", zap.String("tenant_id", tenant.ID))
			return result
		}
		result.Err = err
		monitoring.SweepTenants.WithLabelValues("ingestion", "failed").Inc()
		s.log.Error("credential acquisition failed",
			zap.String("tenant_id", tenant.ID), zap.Error(err))
		return result
	}

	records, err := s.source.FetchUsage(ctx, cred, start, end)
	if err != nil {
		result.Err = err
		monitoring.SweepTenants.WithLabelValues("ingestion", "failed").Inc()
		s.log.Error("usage fetch failed",
			zap.String("tenant_id", tenant.ID), zap.Error(err))
		return result
	}

	written, err := s.ledger.Append(ctx, tenant.ID, records)
	if err != nil {
		result.Err = err
		monitoring.SweepTenants.WithLabelValues("ingestion", "failed").Inc()
		s.log.Error("ledger append failed",
			zap.String("tenant_id", tenant.ID), zap.Error(err))
		return result
	}

	result.Written = written
	monitoring.SweepTenants.WithLabelValues("ingestion", "processed").Inc()
	s.log.Info("tenant ingested",
		zap.String("tenant_id", tenant.ID),
		zap.Int("fetched", len(records)),
		zap.Int("written", written),
	)
	return result
}
