package admin

import (
	"net/http"
	"strings"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"evmarket.io/marketplace-api/app/utils/logger"
	"github.com/gin-gonic/gin"
)

// CacheRoute exposes administrative cache operations.
type CacheRoute struct {
	authService  *auth.AuthService
	cacheService *cache.CacheService
}

func NewCacheRoute(authService *auth.AuthService, cacheService *cache.CacheService) *CacheRoute {
	return &CacheRoute{
		authService:  authService,
		cacheService: cacheService,
	}
}

func (route *CacheRoute) RegisterRouter(router gin.IRouter) {
	adminOnly := append(route.authService.Authenticated(), route.authService.RoleMiddleware(user.RoleAdmin))
	adminRouter := router.Group("/admin/cache", adminOnly...)
	adminRouter.POST("/invalidate", route.InvalidateCache)
	adminRouter.GET("/health", route.CacheHealth)
}

// CacheInvalidateRequest selects what to drop. All wins over Patterns.
type CacheInvalidateRequest struct {
	Patterns []string `json:"patterns"`
	All      bool     `json:"all"`
}

type CacheInvalidateResponse struct {
	Object  string `json:"object"`
	Status  string `json:"status"`
	Removed int64  `json:"removed"`
}

// @Summary Invalidate cache entries
// @Description Drops keys matching the given glob patterns, or the whole keyspace when all is true.
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CacheInvalidateRequest true "Patterns to drop"
// @Success 200 {object} CacheInvalidateResponse
// @Router /v1/admin/cache/invalidate [post]
func (route *CacheRoute) InvalidateCache(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	var request CacheInvalidateRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "824e4b32-3433-45b5-9a77-e2e0a5ce0455",
			Error: err.Error(),
		})
		return
	}

	var removed int64
	if request.All {
		n, err := route.cacheService.Flush(ctx)
		if err != nil {
			logger.GetLogger().Errorf("admin cache: failed to flush cache: %v", err)
			reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
				Code:  "b0c4f1c8-2a3b-4ad4-8b1d-7a2124d7c7b1",
				Error: "failed to invalidate cache",
			})
			return
		}
		removed = n
	} else {
		if len(request.Patterns) == 0 {
			reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
				Code:  "8e58993d-aa06-458c-a808-248f196fdfca",
				Error: "patterns or all is required",
			})
			return
		}
		for _, p := range request.Patterns {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			n, err := route.cacheService.DeletePattern(ctx, cache.Pattern(p))
			if err != nil {
				logger.GetLogger().Errorf("admin cache: failed to delete pattern %s: %v", p, err)
				reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
					Code:  "d77e3114-7f32-4f20-870f-ff4736effe85",
					Error: "failed to invalidate cache",
				})
				return
			}
			removed += n
		}
	}

	reqCtx.JSON(http.StatusOK, CacheInvalidateResponse{
		Object:  "cache.invalidation",
		Status:  "ok",
		Removed: removed,
	})
}

// @Summary Cache store health
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[string]
// @Failure 503 {object} responses.ErrorResponse
// @Router /v1/admin/cache/health [get]
func (route *CacheRoute) CacheHealth(reqCtx *gin.Context) {
	if err := route.cacheService.HealthCheck(reqCtx.Request.Context()); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusServiceUnavailable, responses.ErrorResponse{
			Code:  "d4ff70f7-ee46-4dfd-b30e-92f1afd05e93",
			Error: err.Error(),
		})
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[string]{
		Status: responses.ResponseCodeOk,
		Result: "ok",
	})
}
