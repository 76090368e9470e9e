package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TenantDirectory 租户目录接口
type TenantDirectory interface {
	// ListTenants 列出全部租户（供定时扫描使用）
	ListTenants(ctx context.Context) ([]*Tenant, error)

	// GetTenant 按 ID 获取租户
	GetTenant(ctx context.Context, id string) (*Tenant, error)

	// SetRoleARN 设置/清空租户的委托角色引用（传空串即清空）
	SetRoleARN(ctx context.Context, id, roleARN string) error
}

// CostRecordRepository 成本记录仓储接口
type CostRecordRepository interface {
	// Insert 批量写入成本记录，身份元组已存在的记录被跳过，
	// 返回实际写入的条数（幂等）
	Insert(ctx context.Context, records []*CostRecord) (int, error)

	// ListByTenant 按租户列出全部成本记录，插入序
	ListByTenant(ctx context.Context, tenantID string) ([]*CostRecord, error)

	// SumByService 按服务名分组求和，无记录的服务不出现在结果里
	SumByService(ctx context.Context, tenantID string) (map[string]decimal.Decimal, error)

	// SumTotal 租户全部记录的成本总和，无记录时为 0
	SumTotal(ctx context.Context, tenantID string) (decimal.Decimal, error)
}

// RecommendationRepository 建议仓储接口
type RecommendationRepository interface {
	// Create 持久化一条建议
	Create(ctx context.Context, rec *Recommendation) error

	// ListByTenant 按租户列出建议，生成时间倒序
	ListByTenant(ctx context.Context, tenantID string) ([]*Recommendation, error)
}

// ScopedCredential 短期作用域凭证
//
// 有效期由外部供应商决定，调用方不得跨采集周期缓存。
type ScopedCredential struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
}

// CredentialBroker 凭证代理接口
//
// 单次尝试、快速失败，内部不做退避重试；重试由调度方在下个周期完成。
type CredentialBroker interface {
	Acquire(ctx context.Context, tenant *Tenant) (*ScopedCredential, error)
}

// CostSource 成本数据源接口
//
// 返回 [start, end) 范围内展平后的归一化记录。任何解析失败都使整次调用
// 失败，不返回部分结果。
type CostSource interface {
	FetchUsage(ctx context.Context, cred *ScopedCredential, start, end time.Time) ([]NormalizedCostRecord, error)
}
