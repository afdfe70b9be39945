package http

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/interfaces/http/middleware"
	v1 "evmarket.io/marketplace-api/app/interfaces/http/routes/v1"
	"evmarket.io/marketplace-api/app/utils/logger"
	"evmarket.io/marketplace-api/config/environment_variables"
	"github.com/gin-gonic/gin"
	_ "github.com/grafana/pyroscope-go/godeltaprof/http/pprof"
)

type HttpServer struct {
	engine       *gin.Engine
	v1Route      *v1.V1Route
	cacheService *cache.CacheService
}

func NewHttpServer(v1Route *v1.V1Route, cacheService *cache.CacheService) *HttpServer {
	gin.SetMode(gin.ReleaseMode)
	server := HttpServer{
		engine:       gin.New(),
		v1Route:      v1Route,
		cacheService: cacheService,
	}
	server.engine.Use(middleware.LoggerMiddleware(logger.GetLogger()))
	server.engine.Use(middleware.CORS())
	server.engine.Use(gin.Recovery())
	server.engine.GET("/health-check", server.healthCheck)
	if environment_variables.EnvironmentVariables.ENABLE_PROFILING {
		server.engine.Any("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}
	server.v1Route.RegisterRouter(server.engine.Group("/"))
	return &server
}

// healthCheck answers 200 while the process is up. A cache outage is reported
// in the body but does not fail the health check.
func (httpServer *HttpServer) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	cacheStatus := "ok"
	if err := httpServer.cacheService.HealthCheck(ctx); err != nil {
		logger.GetLogger().WithField("error_code", "5d0a6e0b-8c2e-4d3f-9a61-7f0b2c4e9d13").Warnf("cache health check failed: %v", err)
		cacheStatus = "unavailable"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"cache":  cacheStatus,
	})
}

func (httpServer *HttpServer) Handler() http.Handler {
	return httpServer.engine
}

func (httpServer *HttpServer) Run() error {
	port := environment_variables.EnvironmentVariables.HTTP_PORT
	if port == 0 {
		port = 8080
	}
	if err := httpServer.engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		return err
	}
	return nil
}
