package main

import (
	"context"

	"evmarket.io/marketplace-api/app/domain/cron"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/interfaces/http"
	"evmarket.io/marketplace-api/app/utils/logger"
	"evmarket.io/marketplace-api/config/environment_variables"
	"github.com/mileusna/crontab"
)

type Application struct {
	HttpServer   *http.HttpServer
	CronService  *cron.CronService
	CacheService *cache.CacheService
}

func (application *Application) Start() {
	defer func() {
		if err := application.CacheService.Close(); err != nil {
			logger.GetLogger().Warnf("failed to close cache store: %v", err)
		}
	}()
	if err := application.HttpServer.Run(); err != nil {
		panic(err)
	}
}

func init() {
	environment_variables.EnvironmentVariables.LoadFromEnv()
}

func main() {
	application, err := CreateApplication()
	if err != nil {
		panic(err)
	}
	ctab := crontab.New()
	application.CronService.Start(context.Background(), ctab)
	application.Start()
}
