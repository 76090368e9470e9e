package data

import (
	"context"
	"fmt"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// CostRecordModel is the cost record database model.
//
// The identity tuple (tenant, service, region, usage type, period) carries a
// unique index; inserts that collide with an existing row are dropped, which
// makes ingestion idempotent under retries and re-runs of the same date range.
type CostRecordModel struct {
	ID          string          `gorm:"primaryKey;type:varchar(64)"`
	TenantID    string          `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_cost_identity"`
	ServiceName string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_cost_identity"`
	Region      string          `gorm:"type:varchar(64);uniqueIndex:idx_cost_identity"`
	UsageType   string          `gorm:"type:varchar(255);uniqueIndex:idx_cost_identity"`
	Cost        decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	PeriodStart time.Time       `gorm:"type:date;not null;uniqueIndex:idx_cost_identity"`
	PeriodEnd   time.Time       `gorm:"type:date;not null;uniqueIndex:idx_cost_identity"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for CostRecordModel.
func (CostRecordModel) TableName() string {
	return "cost_records"
}

// ToEntity converts CostRecordModel to domain.CostRecord
func (m *CostRecordModel) ToEntity() *domain.CostRecord {
	return &domain.CostRecord{
		ID:          m.ID,
		TenantID:    m.TenantID,
		ServiceName: m.ServiceName,
		UsageType:   m.UsageType,
		Region:      m.Region,
		Cost:        m.Cost,
		PeriodStart: m.PeriodStart,
		PeriodEnd:   m.PeriodEnd,
		CreatedAt:   m.CreatedAt,
	}
}

// FromCostRecordEntity converts domain.CostRecord to CostRecordModel
func FromCostRecordEntity(rec *domain.CostRecord) *CostRecordModel {
	return &CostRecordModel{
		ID:          rec.ID,
		TenantID:    rec.TenantID,
		ServiceName: rec.ServiceName,
		Region:      rec.Region,
		UsageType:   rec.UsageType,
		Cost:        rec.Cost,
		PeriodStart: truncateToDay(rec.PeriodStart),
		PeriodEnd:   truncateToDay(rec.PeriodEnd),
	}
}

// costRecordRepo is the cost record repository implementation.
type costRecordRepo struct {
	data *Data
	log  *zap.Logger
}

// NewCostRecordRepo creates a new cost record repository.
func NewCostRecordRepo(data *Data, logger *zap.Logger) domain.CostRecordRepository {
	return &costRecordRepo{
		data: data,
		log:  logger,
	}
}

// identityColumns is the conflict target matching idx_cost_identity.
var identityColumns = []clause.Column{
	{Name: "tenant_id"},
	{Name: "service_name"},
	{Name: "region"},
	{Name: "usage_type"},
	{Name: "period_start"},
	{Name: "period_end"},
}

// Insert implements domain.CostRecordRepository
func (r *costRecordRepo) Insert(ctx context.Context, records []*domain.CostRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	models := make([]*CostRecordModel, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrStorageWriteFailed, err)
		}
		model := FromCostRecordEntity(rec)
		if model.ID == "" {
			model.ID = uuid.New().String()
		}
		models = append(models, model)
	}

	// ON CONFLICT DO NOTHING: first write wins, RowsAffected counts the
	// rows actually inserted.
	res := r.data.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: identityColumns, DoNothing: true}).
		Create(&models)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorageWriteFailed, res.Error)
	}

	return int(res.RowsAffected), nil
}

// ListByTenant implements domain.CostRecordRepository
func (r *costRecordRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.CostRecord, error) {
	var models []CostRecordModel
	if err := r.data.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	records := make([]*domain.CostRecord, 0, len(models))
	for i := range models {
		records = append(records, models[i].ToEntity())
	}
	return records, nil
}

// SumByService implements domain.CostRecordRepository
func (r *costRecordRepo) SumByService(ctx context.Context, tenantID string) (map[string]decimal.Decimal, error) {
	rows, err := r.data.db.WithContext(ctx).
		Model(&CostRecordModel{}).
		Select("service_name, SUM(cost) AS total").
		Where("tenant_id = ?", tenantID).
		Group("service_name").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := make(map[string]decimal.Decimal)
	for rows.Next() {
		var service string
		var total decimal.Decimal
		if err := rows.Scan(&service, &total); err != nil {
			return nil, err
		}
		summary[service] = total
	}
	return summary, rows.Err()
}

// SumTotal implements domain.CostRecordRepository
func (r *costRecordRepo) SumTotal(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.data.db.WithContext(ctx).
		Model(&CostRecordModel{}).
		Select("COALESCE(SUM(cost), 0)").
		Where("tenant_id = ?", tenantID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
