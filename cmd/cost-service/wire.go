//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/biz"
	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/conf"
	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/data"
	"github.com/narayanvashishtha/cloud-cost-tracker/cmd/cost-service/internal/service"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// initApp 初始化应用
func initApp(ctx context.Context, config *conf.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		// Data 层
		provideDatabaseConfig,
		data.NewDB,
		data.NewData,
		data.NewTenantRepo,
		data.NewCostRecordRepo,
		data.NewRecommendationRepo,

		// Infra 层
		provideCredentialBroker,
		provideCostSource,

		// Biz 层
		biz.NewLedgerUsecase,
		provideSweeper,
		provideRules,
		biz.NewRecommendationEngine,
		provideScheduler,

		// Service 层
		service.NewReportingService,

		// App
		newApp,
	)
	return nil, nil, nil
}
