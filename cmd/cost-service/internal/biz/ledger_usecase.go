package biz

import (
	"context"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"

	"github.com/shopspring/decimal"
)

// LedgerUsecase 成本台账用例
//
// 台账是追加为主的存储：Append 幂等（身份元组去重，先写入者胜），
// 聚合查询只读。
type LedgerUsecase struct {
	costRepo domain.CostRecordRepository
}

// NewLedgerUsecase 创建成本台账用例
func NewLedgerUsecase(costRepo domain.CostRecordRepository) *LedgerUsecase {
	return &LedgerUsecase{
		costRepo: costRepo,
	}
}

// Append 将归一化记录归属到租户并写入台账，返回实际写入的条数
//
// 身份元组已存在的记录被跳过而不是覆盖，因此重复执行同一日期范围是安全的。
func (uc *LedgerUsecase) Append(ctx context.Context, tenantID string, records []domain.NormalizedCostRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	costRecords := make([]*domain.CostRecord, 0, len(records))
	for _, rec := range records {
		costRecords = append(costRecords, rec.ToCostRecord(tenantID))
	}

	return uc.costRepo.Insert(ctx, costRecords)
}

// RecordsFor 按租户列出全部成本记录，插入序
func (uc *LedgerUsecase) RecordsFor(ctx context.Context, tenantID string) ([]*domain.CostRecord, error) {
	return uc.costRepo.ListByTenant(ctx, tenantID)
}

// SummaryByService 按服务名分组的成本汇总，无记录的服务不出现在结果里
func (uc *LedgerUsecase) SummaryByService(ctx context.Context, tenantID string) (map[string]decimal.Decimal, error) {
	return uc.costRepo.SumByService(ctx, tenantID)
}

// TotalCost 租户全部成本记录的总和，无记录时为 0
func (uc *LedgerUsecase) TotalCost(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	return uc.costRepo.SumTotal(ctx, tenantID)
}
