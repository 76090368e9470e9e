package biz

import (
	"context"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"
	"github.com/narayanvashishtha/cloud-cost-tracker/pkg/monitoring"

	"go.uber.org/zap"
)

// Rule 建议规则
//
// 规则对台账只读，每个租户最多产出一条建议（返回 nil 表示不产出）。
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, tenant *domain.Tenant, ledger *LedgerUsecase) (*domain.Recommendation, error)
}

// RecommendationEngine 建议引擎
//
// 独立于采集任务的周期运行，按序对每个租户评估全部规则并持久化产出。
// 单个租户/规则的失败只记日志，不中断整轮扫描。
type RecommendationEngine struct {
	tenants domain.TenantDirectory
	ledger  *LedgerUsecase
	recRepo domain.RecommendationRepository
	rules   []Rule
	log     *zap.Logger
}

// NewRecommendationEngine 创建建议引擎
func NewRecommendationEngine(
	tenants domain.TenantDirectory,
	ledger *LedgerUsecase,
	recRepo domain.RecommendationRepository,
	rules []Rule,
	logger *zap.Logger,
) *RecommendationEngine {
	return &RecommendationEngine{
		tenants: tenants,
		ledger:  ledger,
		recRepo: recRepo,
		rules:   rules,
		log:     logger,
	}
}

// RecommendReport 一轮建议扫描的汇总
type RecommendReport struct {
	Tenants  int
	Emitted  int
	Failures int
	Duration time.Duration
}

// Sweep 执行一轮建议扫描
func (e *RecommendationEngine) Sweep(ctx context.Context, now time.Time) (*RecommendReport, error) {
	started := time.Now()

	tenants, err := e.tenants.ListTenants(ctx)
	if err != nil {
		return nil, err
	}

	report := &RecommendReport{Tenants: len(tenants)}
	for _, tenant := range tenants {
		for _, rule := range e.rules {
			rec, err := rule.Evaluate(ctx, tenant, e.ledger)
			if err != nil {
				report.Failures++
				e.log.Error("rule evaluation failed",
					zap.String("tenant_id", tenant.ID),
					zap.String("rule", rule.Name()),
					zap.Error(err),
				)
				continue
			}
			if rec == nil {
				continue
			}

			rec.TenantID = tenant.ID
			rec.GeneratedAt = now
			if err := e.recRepo.Create(ctx, rec); err != nil {
				report.Failures++
				e.log.Error("recommendation persist failed",
					zap.String("tenant_id", tenant.ID),
					zap.String("rule", rule.Name()),
					zap.Error(err),
				)
				continue
			}

			report.Emitted++
			monitoring.RecommendationsEmitted.WithLabelValues(string(rec.Kind)).Inc()
			e.log.Info("recommendation emitted",
				zap.String("tenant_id", tenant.ID),
				zap.String("kind", string(rec.Kind)),
			)
		}
	}

	report.Duration = time.Since(started)
	monitoring.SweepDuration.WithLabelValues("recommend").Observe(report.Duration.Seconds())

	e.log.Info("recommendation sweep completed",
		zap.Int("tenants", report.Tenants),
		zap.Int("emitted", report.Emitted),
		zap.Int("failures", report.Failures),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}
