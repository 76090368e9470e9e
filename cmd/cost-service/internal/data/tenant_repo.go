package data

import (
	"context"
	"errors"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TenantModel is the tenant database model.
type TenantModel struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)"`
	Name       string    `gorm:"uniqueIndex;type:varchar(255);not null"`
	AWSRoleARN string    `gorm:"column:aws_role_arn;type:varchar(512)"`
	Status     string    `gorm:"type:varchar(32);not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for TenantModel.
func (TenantModel) TableName() string {
	return "tenants"
}

// ToEntity converts TenantModel to domain.Tenant
func (m *TenantModel) ToEntity() *domain.Tenant {
	return &domain.Tenant{
		ID:         m.ID,
		Name:       m.Name,
		AWSRoleARN: m.AWSRoleARN,
		Status:     domain.TenantStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// tenantRepo is the tenant directory implementation.
type tenantRepo struct {
	data *Data
	log  *zap.Logger
}

// NewTenantRepo creates a new tenant directory.
func NewTenantRepo(data *Data, logger *zap.Logger) domain.TenantDirectory {
	return &tenantRepo{
		data: data,
		log:  logger,
	}
}

// ListTenants implements domain.TenantDirectory
func (r *tenantRepo) ListTenants(ctx context.Context) ([]*domain.Tenant, error) {
	var models []TenantModel
	if err := r.data.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	tenants := make([]*domain.Tenant, 0, len(models))
	for i := range models {
		tenants = append(tenants, models[i].ToEntity())
	}
	return tenants, nil
}

// GetTenant implements domain.TenantDirectory
func (r *tenantRepo) GetTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	var model TenantModel
	if err := r.data.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// SetRoleARN implements domain.TenantDirectory
func (r *tenantRepo) SetRoleARN(ctx context.Context, id, roleARN string) error {
	res := r.data.db.WithContext(ctx).
		Model(&TenantModel{}).
		Where("id = ?", id).
		Update("aws_role_arn", roleARN)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}
