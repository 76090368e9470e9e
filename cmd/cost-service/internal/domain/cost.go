package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CostRecord 成本记录聚合根
//
// 一条记录对应外部账单 API 的一个（时间桶 × 分组）观测值，写入后不可变。
// 去重身份由 IdentityKey 定义：同一租户下身份相同的两条记录视为同一观测，
// 只保留先写入的一条。
type CostRecord struct {
	ID          string
	TenantID    string
	ServiceName string
	UsageType   string
	Region      string
	Cost        decimal.Decimal
	PeriodStart time.Time // 天粒度
	PeriodEnd   time.Time // 不含端点，PeriodEnd >= PeriodStart
	CreatedAt   time.Time
}

// CostRecordIdentity 成本记录的去重身份元组
//
// 注意：Cost 不参与身份比较——金额不同但元组相同的记录仍然是重复观测。
type CostRecordIdentity struct {
	TenantID    string
	ServiceName string
	UsageType   string
	Region      string
	PeriodStart string
	PeriodEnd   string
}

// IdentityKey 返回该记录的去重身份
func (r *CostRecord) IdentityKey() CostRecordIdentity {
	return CostRecordIdentity{
		TenantID:    r.TenantID,
		ServiceName: r.ServiceName,
		UsageType:   r.UsageType,
		Region:      r.Region,
		PeriodStart: r.PeriodStart.Format(DateLayout),
		PeriodEnd:   r.PeriodEnd.Format(DateLayout),
	}
}

// Validate 校验记录的基本约束
func (r *CostRecord) Validate() error {
	if r.TenantID == "" {
		return fmt.Errorf("cost record: tenant id is empty")
	}
	if r.ServiceName == "" {
		return fmt.Errorf("cost record: service name is empty")
	}
	if r.Cost.IsNegative() {
		return fmt.Errorf("cost record: negative cost %s", r.Cost)
	}
	if r.PeriodEnd.Before(r.PeriodStart) {
		return fmt.Errorf("cost record: period end %s before start %s",
			r.PeriodEnd.Format(DateLayout), r.PeriodStart.Format(DateLayout))
	}
	return nil
}

// NormalizedCostRecord 适配器产出的归一化成本记录（尚未归属租户）
//
// 供应商响应的嵌套结构（时间桶 → 分组 → 指标）在适配器边界被展平成这个
// 形状，核心其余部分不接触供应商特定的 schema。
type NormalizedCostRecord struct {
	ServiceName string
	UsageType   string
	Region      string
	Cost        decimal.Decimal
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// ToCostRecord 归属到租户，生成可持久化的成本记录
func (n NormalizedCostRecord) ToCostRecord(tenantID string) *CostRecord {
	return &CostRecord{
		TenantID:    tenantID,
		ServiceName: n.ServiceName,
		UsageType:   n.UsageType,
		Region:      n.Region,
		Cost:        n.Cost,
		PeriodStart: n.PeriodStart,
		PeriodEnd:   n.PeriodEnd,
	}
}

// DateLayout 成本周期使用的日期格式（天粒度）
const DateLayout = "2006-01-02"
