package service

import (
	"context"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/biz"
	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"

	"github.com/shopspring/decimal"
)

// ReportingService 报表查询服务实现
//
// 面向展示层的只读查询入口，租户身份由调用方显式传入。
type ReportingService struct {
	ledgerUc *biz.LedgerUsecase
	recRepo  domain.RecommendationRepository
}

// NewReportingService 创建报表查询服务
func NewReportingService(ledgerUc *biz.LedgerUsecase, recRepo domain.RecommendationRepository) *ReportingService {
	return &ReportingService{
		ledgerUc: ledgerUc,
		recRepo:  recRepo,
	}
}

// Summary 按服务名分组的成本汇总
func (s *ReportingService) Summary(ctx context.Context, tenantID string) (map[string]decimal.Decimal, error) {
	return s.ledgerUc.SummaryByService(ctx, tenantID)
}

// Total 租户成本总和
func (s *ReportingService) Total(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	return s.ledgerUc.TotalCost(ctx, tenantID)
}

// Records 租户全部成本记录
func (s *ReportingService) Records(ctx context.Context, tenantID string) ([]*domain.CostRecord, error) {
	return s.ledgerUc.RecordsFor(ctx, tenantID)
}

// Recommendations 租户的建议列表
func (s *ReportingService) Recommendations(ctx context.Context, tenantID string) ([]*domain.Recommendation, error) {
	return s.recRepo.ListByTenant(ctx, tenantID)
}
