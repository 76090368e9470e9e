package data

import (
	"fmt"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/conf"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Data is the data access layer struct.
type Data struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewDB creates a database connection from config.
func NewDB(c *conf.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	// do not log the password
	logger.Info("connecting to database",
		zap.String("host", c.Host),
		zap.Int("port", c.Port),
		zap.String("dbname", c.DBName),
		zap.String("user", c.User),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)

	return db, nil
}

// NewData creates a new data access layer and migrates the schema.
func NewData(db *gorm.DB, logger *zap.Logger) (*Data, func(), error) {
	if err := db.AutoMigrate(&TenantModel{}, &CostRecordModel{}, &RecommendationModel{}); err != nil {
		return nil, nil, fmt.Errorf("auto migrate: %w", err)
	}

	cleanup := func() {
		logger.Info("closing the data resources")
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}
	return &Data{db: db, log: logger}, cleanup, nil
}

// truncateToDay normalizes a timestamp to date granularity in UTC.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
