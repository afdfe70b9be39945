package savedvehicles

import (
	"net/http"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/savedvehicle"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"github.com/gin-gonic/gin"
)

type SavedVehiclesRoute struct {
	authService         *auth.AuthService
	savedVehicleService *savedvehicle.SavedVehicleService
}

func NewSavedVehiclesRoute(authService *auth.AuthService, savedVehicleService *savedvehicle.SavedVehicleService) *SavedVehiclesRoute {
	return &SavedVehiclesRoute{
		authService,
		savedVehicleService,
	}
}

func (route *SavedVehiclesRoute) RegisterRouter(router gin.IRouter) {
	savedRouter := router.Group("/saved-vehicles", route.authService.Authenticated()...)
	savedRouter.GET("", route.ListSavedVehicles)
	savedRouter.POST("/:listing_id", route.SaveVehicle)
	savedRouter.DELETE("/:listing_id", route.RemoveVehicle)
	savedRouter.GET("/:listing_id/status", route.GetSavedStatus)
}

type SavedStatusResponse struct {
	ListingID string `json:"listing_id"`
	Saved     bool   `json:"saved"`
}

// @Summary List saved vehicles
// @Tags Saved vehicles
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[[]savedvehicle.SavedVehicle]
// @Router /v1/saved-vehicles [get]
func (route *SavedVehiclesRoute) ListSavedVehicles(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	items, err := route.savedVehicleService.FindByUser(reqCtx.Request.Context(), me.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "9a3da6ce-ab02-43e9-a605-8f31ab7d019e", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*savedvehicle.SavedVehicle]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary Save a vehicle
// @Tags Saved vehicles
// @Security BearerAuth
// @Produce json
// @Param listing_id path string true "Listing public id"
// @Success 201 {object} responses.GeneralResponse[savedvehicle.SavedVehicle]
// @Failure 409 {object} responses.ErrorResponse "Already saved"
// @Router /v1/saved-vehicles/{listing_id} [post]
func (route *SavedVehiclesRoute) SaveVehicle(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	saved, err := route.savedVehicleService.Save(reqCtx.Request.Context(), me.PublicID, reqCtx.Param("listing_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "9124c7d0-7a67-4c36-ba9e-e19b1eac2cc6", err)
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[*savedvehicle.SavedVehicle]{
		Status: responses.ResponseCodeOk,
		Result: saved,
	})
}

// @Summary Remove a saved vehicle
// @Tags Saved vehicles
// @Security BearerAuth
// @Param listing_id path string true "Listing public id"
// @Success 204
// @Router /v1/saved-vehicles/{listing_id} [delete]
func (route *SavedVehiclesRoute) RemoveVehicle(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	if err := route.savedVehicleService.Remove(reqCtx.Request.Context(), me.PublicID, reqCtx.Param("listing_id")); err != nil {
		responses.AbortWithError(reqCtx, "845180af-1a29-49a8-b941-9831611d7c66", err)
		return
	}
	reqCtx.Status(http.StatusNoContent)
}

// @Summary Check whether a vehicle is saved
// @Tags Saved vehicles
// @Security BearerAuth
// @Produce json
// @Param listing_id path string true "Listing public id"
// @Success 200 {object} responses.GeneralResponse[SavedStatusResponse]
// @Router /v1/saved-vehicles/{listing_id}/status [get]
func (route *SavedVehiclesRoute) GetSavedStatus(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	listingID := reqCtx.Param("listing_id")
	saved, err := route.savedVehicleService.IsSaved(reqCtx.Request.Context(), me.PublicID, listingID)
	if err != nil {
		responses.AbortWithError(reqCtx, "9783fb4d-097d-42ad-baad-262acfcb57df", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[SavedStatusResponse]{
		Status: responses.ResponseCodeOk,
		Result: SavedStatusResponse{ListingID: listingID, Saved: saved},
	})
}
