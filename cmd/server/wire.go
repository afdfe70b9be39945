//go:build wireinject

package main

import (
	"evmarket.io/marketplace-api/app/domain"
	"evmarket.io/marketplace-api/app/infrastructure"
	"evmarket.io/marketplace-api/app/infrastructure/database"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository"
	"evmarket.io/marketplace-api/app/interfaces/http"
	"evmarket.io/marketplace-api/app/interfaces/http/routes"
	"github.com/google/wire"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		database.NewDB,
		repository.RepositoryProvider,
		infrastructure.InfrastructureProvider,
		domain.ServiceProvider,
		routes.RouteProvider,
		http.NewHttpServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
