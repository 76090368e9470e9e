package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recommendation 优化建议聚合根
//
// 仅由建议引擎生成，写入后不可变。对成本记录只读。
type Recommendation struct {
	ID               string
	TenantID         string
	Kind             RecommendationKind
	Description      string
	EstimatedSavings *decimal.Decimal // 可为空：通用告警没有具体的节省估算
	GeneratedAt      time.Time
	CreatedAt        time.Time
}

// RecommendationKind 建议类型（可扩展）
type RecommendationKind string

const (
	// RecommendationKindHighCost 总支出超过阈值
	RecommendationKindHighCost RecommendationKind = "high-cost-alert"
)
