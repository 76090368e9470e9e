package main

import (
	"context"
	"time"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/biz"
	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/conf"
	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/domain"
	infraaws "github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/infra/aws"
	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// App 应用组件聚合
type App struct {
	Scheduler *biz.Scheduler
	Reporting *service.ReportingService
}

// newApp 创建应用
func newApp(scheduler *biz.Scheduler, reporting *service.ReportingService) *App {
	return &App{
		Scheduler: scheduler,
		Reporting: reporting,
	}
}

// provideDatabaseConfig 提取数据库配置
func provideDatabaseConfig(config *conf.Config) *conf.DatabaseConfig {
	return &config.Database
}

// provideCredentialBroker 创建凭证代理
func provideCredentialBroker(ctx context.Context, config *conf.Config, logger *zap.Logger) (domain.CredentialBroker, error) {
	return infraaws.NewCredentialBroker(ctx, infraaws.BrokerConfig{
		Region:            config.AWS.Region,
		SessionNamePrefix: config.AWS.SessionNamePrefix,
		Duration:          config.AWS.CredentialDuration,
	}, logger)
}

// provideCostSource 创建成本数据源
func provideCostSource(config *conf.Config, logger *zap.Logger) domain.CostSource {
	return infraaws.NewCostExplorerSource(config.AWS.Region, logger)
}

// provideSweeper 创建采集扫描器
func provideSweeper(
	config *conf.Config,
	tenants domain.TenantDirectory,
	broker domain.CredentialBroker,
	source domain.CostSource,
	ledger *biz.LedgerUsecase,
	logger *zap.Logger,
) *biz.IngestionSweeper {
	return biz.NewIngestionSweeper(
		tenants, broker, source, ledger,
		config.Ingestion.WorkerLimit, config.Ingestion.TenantTimeout, logger,
	)
}

// provideRules 创建规则集
func provideRules(config *conf.Config) ([]biz.Rule, error) {
	threshold, err := decimal.NewFromString(config.Recommend.HighCostThreshold)
	if err != nil {
		return nil, err
	}
	return []biz.Rule{biz.NewHighCostRule(threshold)}, nil
}

// provideScheduler 创建调度器并注册周期任务
//
// 建议扫描相对采集错峰，保证观察到当天稳定的台账。
func provideScheduler(
	config *conf.Config,
	sweeper *biz.IngestionSweeper,
	engine *biz.RecommendationEngine,
	logger *zap.Logger,
) *biz.Scheduler {
	scheduler := biz.NewScheduler(logger)
	scheduler.Register(biz.Job{
		Name:     "ingestion",
		Interval: config.Ingestion.Interval,
		Offset:   config.Ingestion.StartOffset,
		Run: func(ctx context.Context, now time.Time) {
			if _, err := sweeper.Sweep(ctx, now); err != nil {
				logger.Error("ingestion sweep aborted", zap.Error(err))
			}
		},
	})
	scheduler.Register(biz.Job{
		Name:     "recommend",
		Interval: config.Recommend.Interval,
		Offset:   config.Recommend.StartOffset,
		Run: func(ctx context.Context, now time.Time) {
			if _, err := engine.Sweep(ctx, now); err != nil {
				logger.Error("recommendation sweep aborted", zap.Error(err))
			}
		},
	})
	return scheduler
}
