package repairlocations

import (
	"net/http"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/repairlocation"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"github.com/gin-gonic/gin"
)

type RepairLocationsRoute struct {
	authService           *auth.AuthService
	repairLocationService *repairlocation.RepairLocationService
}

func NewRepairLocationsRoute(authService *auth.AuthService, repairLocationService *repairlocation.RepairLocationService) *RepairLocationsRoute {
	return &RepairLocationsRoute{
		authService,
		repairLocationService,
	}
}

func (route *RepairLocationsRoute) RegisterRouter(router gin.IRouter) {
	locationsRouter := router.Group("/repair-locations")
	locationsRouter.GET("", route.ListRepairLocations)
	locationsRouter.GET("/:location_id", route.GetRepairLocation)

	adminOnly := append(route.authService.Authenticated(), route.authService.RoleMiddleware(user.RoleAdmin))
	adminRouter := locationsRouter.Group("", adminOnly...)
	adminRouter.POST("", route.CreateRepairLocation)
	adminRouter.PATCH("/:location_id", route.UpdateRepairLocation)
	adminRouter.DELETE("/:location_id", route.DeleteRepairLocation)
}

type RepairLocationRequest struct {
	Name         *string  `json:"name"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Phone        *string  `json:"phone"`
	Services     []string `json:"services"`
	OpeningHours *string  `json:"opening_hours"`
}

func (r RepairLocationRequest) toInput() repairlocation.RepairLocationInput {
	return repairlocation.RepairLocationInput{
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Phone:        r.Phone,
		Services:     r.Services,
		OpeningHours: r.OpeningHours,
	}
}

// @Summary List repair locations
// @Tags Repair locations
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param city query string false "Filter by city"
// @Success 200 {object} responses.PageResponse[repairlocation.RepairLocation]
// @Router /v1/repair-locations [get]
func (route *RepairLocationsRoute) ListRepairLocations(reqCtx *gin.Context) {
	q, err := query.GetListQueryFromQuery(reqCtx, "city")
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "2bab8414-7fb5-4a62-a8a6-6b00632e9197",
			Error: err.Error(),
		})
		return
	}
	page, err := route.repairLocationService.List(reqCtx.Request.Context(), *q)
	if err != nil {
		responses.AbortWithError(reqCtx, "bbb6da5e-00b4-4163-897d-dca8b3305377", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.NewPageResponse(page))
}

// @Summary Get repair location
// @Tags Repair locations
// @Produce json
// @Param location_id path string true "Location public id"
// @Success 200 {object} responses.GeneralResponse[repairlocation.RepairLocation]
// @Router /v1/repair-locations/{location_id} [get]
func (route *RepairLocationsRoute) GetRepairLocation(reqCtx *gin.Context) {
	loc, err := route.repairLocationService.FindByID(reqCtx.Request.Context(), reqCtx.Param("location_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "230efacc-a2ea-43f4-87f1-4cb9cbab313f", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*repairlocation.RepairLocation]{
		Status: responses.ResponseCodeOk,
		Result: loc,
	})
}

// @Summary Create repair location
// @Tags Repair locations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RepairLocationRequest true "Location"
// @Success 201 {object} responses.GeneralResponse[repairlocation.RepairLocation]
// @Router /v1/repair-locations [post]
func (route *RepairLocationsRoute) CreateRepairLocation(reqCtx *gin.Context) {
	var request RepairLocationRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "35f46e31-2581-4b9e-a72c-22ed6e30234d",
			Error: err.Error(),
		})
		return
	}
	loc, err := route.repairLocationService.Create(reqCtx.Request.Context(), request.toInput())
	if err != nil {
		responses.AbortWithError(reqCtx, "d392e63e-ae04-4d30-8853-ff8f3015da07", err)
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[*repairlocation.RepairLocation]{
		Status: responses.ResponseCodeOk,
		Result: loc,
	})
}

// @Summary Update repair location
// @Tags Repair locations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param location_id path string true "Location public id"
// @Param request body RepairLocationRequest true "Fields to change"
// @Success 200 {object} responses.GeneralResponse[repairlocation.RepairLocation]
// @Router /v1/repair-locations/{location_id} [patch]
func (route *RepairLocationsRoute) UpdateRepairLocation(reqCtx *gin.Context) {
	var request RepairLocationRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "477a56fa-2b3b-47db-af65-9d9b8c309d0d",
			Error: err.Error(),
		})
		return
	}
	loc, err := route.repairLocationService.Update(reqCtx.Request.Context(), reqCtx.Param("location_id"), request.toInput())
	if err != nil {
		responses.AbortWithError(reqCtx, "862218cb-0169-4b3b-b429-3638bc59e7e7", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*repairlocation.RepairLocation]{
		Status: responses.ResponseCodeOk,
		Result: loc,
	})
}

// @Summary Delete repair location
// @Tags Repair locations
// @Security BearerAuth
// @Param location_id path string true "Location public id"
// @Success 204
// @Router /v1/repair-locations/{location_id} [delete]
func (route *RepairLocationsRoute) DeleteRepairLocation(reqCtx *gin.Context) {
	if err := route.repairLocationService.Delete(reqCtx.Request.Context(), reqCtx.Param("location_id")); err != nil {
		responses.AbortWithError(reqCtx, "92ec8b78-4a66-4a9b-ba79-2067c1cec68d", err)
		return
	}
	reqCtx.Status(http.StatusNoContent)
}
