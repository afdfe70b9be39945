package listings

import (
	"net/http"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ListingsRoute struct {
	authService    *auth.AuthService
	listingService *listing.ListingService
}

func NewListingsRoute(authService *auth.AuthService, listingService *listing.ListingService) *ListingsRoute {
	return &ListingsRoute{
		authService,
		listingService,
	}
}

func (route *ListingsRoute) RegisterRouter(router gin.IRouter) {
	listingsRouter := router.Group("/listings")
	listingsRouter.GET("", route.ListListings)
	listingsRouter.GET("/:listing_id", route.GetListing)
	listingsRouter.GET("/seller/:seller_id", route.ListSellerListings)

	sellerOnly := append(route.authService.Authenticated(), route.authService.RoleMiddleware(user.RoleSeller))
	writeRouter := listingsRouter.Group("", sellerOnly...)
	writeRouter.POST("", route.CreateListing)
	writeRouter.PATCH("/:listing_id", route.UpdateListing)
	writeRouter.DELETE("/:listing_id", route.DeleteListing)
}

type ListingRequest struct {
	Title              *string          `json:"title"`
	Brand              *string          `json:"brand"`
	Model              *string          `json:"model"`
	Year               *int             `json:"year"`
	Price              *decimal.Decimal `json:"price"`
	BatteryCapacityKWh *float64         `json:"battery_capacity_kwh"`
	BatteryHealth      *float64         `json:"battery_health"`
	RangeKm            *int             `json:"range_km"`
	MileageKm          *int             `json:"mileage_km"`
	Location           *string          `json:"location"`
	Description        *string          `json:"description"`
	Images             []string         `json:"images"`
	Status             *listing.Status  `json:"status"`
}

func (r ListingRequest) toInput() listing.ListingInput {
	return listing.ListingInput{
		Title:              r.Title,
		Brand:              r.Brand,
		Model:              r.Model,
		Year:               r.Year,
		Price:              r.Price,
		BatteryCapacityKWh: r.BatteryCapacityKWh,
		BatteryHealth:      r.BatteryHealth,
		RangeKm:            r.RangeKm,
		MileageKm:          r.MileageKm,
		Location:           r.Location,
		Description:        r.Description,
		Images:             r.Images,
		Status:             r.Status,
	}
}

// @Summary List active listings
// @Tags Listings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param search query string false "Matches title, model or description"
// @Param brand query string false "Brand filter"
// @Success 200 {object} responses.PageResponse[listing.Listing]
// @Router /v1/listings [get]
func (route *ListingsRoute) ListListings(reqCtx *gin.Context) {
	q, err := query.GetListQueryFromQuery(reqCtx, "brand")
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "30edc60c-b78d-43b0-9790-4010c9b4054f",
			Error: err.Error(),
		})
		return
	}
	page, err := route.listingService.List(reqCtx.Request.Context(), *q)
	if err != nil {
		responses.AbortWithError(reqCtx, "c6656b52-6983-4264-b66a-18a92550302e", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.NewPageResponse(page))
}

// @Summary Get listing
// @Tags Listings
// @Produce json
// @Param listing_id path string true "Listing public id"
// @Success 200 {object} responses.GeneralResponse[listing.Listing]
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/listings/{listing_id} [get]
func (route *ListingsRoute) GetListing(reqCtx *gin.Context) {
	l, err := route.listingService.FindByID(reqCtx.Request.Context(), reqCtx.Param("listing_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "f328a575-feca-4a7c-bd5b-cef3e5aaba03", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*listing.Listing]{
		Status: responses.ResponseCodeOk,
		Result: l,
	})
}

// @Summary List a seller's listings
// @Tags Listings
// @Produce json
// @Param seller_id path string true "Seller public id"
// @Success 200 {object} responses.GeneralResponse[[]listing.Listing]
// @Router /v1/listings/seller/{seller_id} [get]
func (route *ListingsRoute) ListSellerListings(reqCtx *gin.Context) {
	items, err := route.listingService.FindBySeller(reqCtx.Request.Context(), reqCtx.Param("seller_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "17aca88d-d6cc-45d7-83cd-14de12ccdff6", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*listing.Listing]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary Create listing
// @Tags Listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ListingRequest true "Listing"
// @Success 201 {object} responses.GeneralResponse[listing.Listing]
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/listings [post]
func (route *ListingsRoute) CreateListing(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request ListingRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "df3fbf7c-c981-4e28-9e61-9fcbea65a2a5",
			Error: err.Error(),
		})
		return
	}
	l, err := route.listingService.Create(reqCtx.Request.Context(), me, request.toInput())
	if err != nil {
		responses.AbortWithError(reqCtx, "bac23e83-a7fc-4e79-a671-3e083d9dee57", err)
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[*listing.Listing]{
		Status: responses.ResponseCodeOk,
		Result: l,
	})
}

// @Summary Update listing
// @Tags Listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param listing_id path string true "Listing public id"
// @Param request body ListingRequest true "Fields to change"
// @Success 200 {object} responses.GeneralResponse[listing.Listing]
// @Failure 403 {object} responses.ErrorResponse "Not the owner"
// @Router /v1/listings/{listing_id} [patch]
func (route *ListingsRoute) UpdateListing(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request ListingRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "69d6d6fa-45b7-4652-89a7-f64268b9b12a",
			Error: err.Error(),
		})
		return
	}
	l, err := route.listingService.Update(reqCtx.Request.Context(), me, reqCtx.Param("listing_id"), request.toInput())
	if err != nil {
		responses.AbortWithError(reqCtx, "4d81ac92-5229-42d6-a27d-834a4bf67c1f", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*listing.Listing]{
		Status: responses.ResponseCodeOk,
		Result: l,
	})
}

// @Summary Delete listing
// @Tags Listings
// @Security BearerAuth
// @Param listing_id path string true "Listing public id"
// @Success 204
// @Router /v1/listings/{listing_id} [delete]
func (route *ListingsRoute) DeleteListing(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	if err := route.listingService.Delete(reqCtx.Request.Context(), me, reqCtx.Param("listing_id")); err != nil {
		responses.AbortWithError(reqCtx, "4cbe31c7-912e-447c-89d7-a1346c94c706", err)
		return
	}
	reqCtx.Status(http.StatusNoContent)
}
