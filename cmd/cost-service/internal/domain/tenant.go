package domain

import "time"

// Tenant 租户聚合根
//
// 租户由外部注册流程创建，本服务只读取租户列表并维护委托角色引用
// （AWSRoleARN）。没有配置角色的租户在采集阶段被跳过。
type Tenant struct {
	ID         string
	Name       string
	AWSRoleARN string
	Status     TenantStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TenantStatus 租户状态
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"    // 正常
	TenantStatusSuspended TenantStatus = "suspended" // 暂停（采集跳过）
)

// HasDelegation 是否配置了委托角色
func (t *Tenant) HasDelegation() bool {
	return t.AWSRoleARN != ""
}
