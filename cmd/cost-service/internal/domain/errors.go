package domain

import "errors"

var (
	// ErrNoDelegationConfigured 租户未配置委托角色（预期情况，跳过该租户）
	ErrNoDelegationConfigured = errors.New("no delegation configured for tenant")

	// ErrCredentialExchangeFailed 凭证交换失败（瞬时，下个周期重试）
	ErrCredentialExchangeFailed = errors.New("credential exchange failed")

	// ErrSourceUnavailable 成本数据源不可用（瞬时，下个周期重试）
	ErrSourceUnavailable = errors.New("cost source unavailable")

	// ErrMalformedUsageData 用量数据无法解析（数据完整性问题，本周期整体放弃，不允许部分摄入）
	ErrMalformedUsageData = errors.New("malformed usage data")

	// ErrStorageWriteFailed 持久化写入失败
	ErrStorageWriteFailed = errors.New("storage write failed")

	// ErrTenantNotFound 租户未找到
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidDateRange 无效的日期范围
	ErrInvalidDateRange = errors.New("invalid date range")
)
