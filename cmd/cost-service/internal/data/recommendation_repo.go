package data

import (
	"context"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecommendationModel is the recommendation database model.
type RecommendationModel struct {
	ID               string           `gorm:"primaryKey;type:varchar(64)"`
	TenantID         string           `gorm:"type:varchar(64);not null;index"`
	Kind             string           `gorm:"type:varchar(64);not null"`
	Description      string           `gorm:"type:text;not null"`
	EstimatedSavings *decimal.Decimal `gorm:"type:numeric(20,6)"`
	GeneratedAt      time.Time        `gorm:"type:date;not null"`
	CreatedAt        time.Time        `gorm:"not null"`
}

// TableName returns the table name for RecommendationModel.
func (RecommendationModel) TableName() string {
	return "recommendations"
}

// ToEntity converts RecommendationModel to domain.Recommendation
func (m *RecommendationModel) ToEntity() *domain.Recommendation {
	return &domain.Recommendation{
		ID:               m.ID,
		TenantID:         m.TenantID,
		Kind:             domain.RecommendationKind(m.Kind),
		Description:      m.Description,
		EstimatedSavings: m.EstimatedSavings,
		GeneratedAt:      m.GeneratedAt,
		CreatedAt:        m.CreatedAt,
	}
}

// recommendationRepo is the recommendation repository implementation.
type recommendationRepo struct {
	data *Data
	log  *zap.Logger
}

// NewRecommendationRepo creates a new recommendation repository.
func NewRecommendationRepo(data *Data, logger *zap.Logger) domain.RecommendationRepository {
	return &recommendationRepo{
		data: data,
		log:  logger,
	}
}

// Create implements domain.RecommendationRepository
func (r *recommendationRepo) Create(ctx context.Context, rec *domain.Recommendation) error {
	model := &RecommendationModel{
		ID:               rec.ID,
		TenantID:         rec.TenantID,
		Kind:             string(rec.Kind),
		Description:      rec.Description,
		EstimatedSavings: rec.EstimatedSavings,
		GeneratedAt:      truncateToDay(rec.GeneratedAt),
	}
	if model.ID == "" {
		model.ID = uuid.New().String()
	}
	return r.data.db.WithContext(ctx).Create(model).Error
}

// ListByTenant implements domain.RecommendationRepository
func (r *recommendationRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Recommendation, error) {
	var models []RecommendationModel
	if err := r.data.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("generated_at DESC, created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	recs := make([]*domain.Recommendation, 0, len(models))
	for i := range models {
		recs = append(recs, models[i].ToEntity())
	}
	return recs, nil
}
