package biz

import (
	"context"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"

	"github.com/shopspring/decimal"
)

// HighCostRule 高成本告警规则
//
// 总支出严格大于阈值时产出 high-cost-alert，不带节省估算。
// 边界：恰好等于阈值不触发。
type HighCostRule struct {
	Threshold decimal.Decimal
}

// NewHighCostRule 创建高成本告警规则
func NewHighCostRule(threshold decimal.Decimal) *HighCostRule {
	return &HighCostRule{Threshold: threshold}
}

// Name 规则名
func (r *HighCostRule) Name() string {
	return "high-cost"
}

// Evaluate 实现 Rule
func (r *HighCostRule) Evaluate(ctx context.Context, tenant *domain.Tenant, ledger *LedgerUsecase) (*domain.Recommendation, error) {
	total, err := ledger.TotalCost(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}

	if total.Cmp(r.Threshold) <= 0 {
		return nil, nil
	}

	return &domain.Recommendation{
		Kind:        domain.RecommendationKindHighCost,
		Description: "Your total cloud spending is high. Review your services for potential optimizations.",
	}, nil
}
