package testdrives

import (
	"net/http"
	"time"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/booking"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"github.com/gin-gonic/gin"
)

type TestDrivesRoute struct {
	authService    *auth.AuthService
	bookingService *booking.BookingService
}

func NewTestDrivesRoute(authService *auth.AuthService, bookingService *booking.BookingService) *TestDrivesRoute {
	return &TestDrivesRoute{
		authService,
		bookingService,
	}
}

func (route *TestDrivesRoute) RegisterRouter(router gin.IRouter) {
	testDrivesRouter := router.Group("/test-drives")

	slotsRouter := testDrivesRouter.Group("/slots")
	slotsRouter.GET("", route.ListActiveSlots)
	slotsRouter.GET("/:slot_id", route.GetSlot)
	slotsRouter.GET("/seller/:seller_id", route.ListSellerSlots)

	sellerOnly := append(route.authService.Authenticated(), route.authService.RoleMiddleware(user.RoleSeller))
	slotWriter := slotsRouter.Group("", sellerOnly...)
	slotWriter.POST("", route.CreateSlot)
	slotWriter.PATCH("/:slot_id", route.UpdateSlot)
	slotWriter.DELETE("/:slot_id", route.DeleteSlot)
	slotWriter.GET("/:slot_id/bookings", route.ListSlotBookings)

	bookingsRouter := testDrivesRouter.Group("/bookings", route.authService.Authenticated()...)
	bookingsRouter.POST("", route.CreateBooking)
	bookingsRouter.GET("/me", route.ListMyBookings)
	bookingsRouter.GET("/:booking_id", route.GetBooking)
	bookingsRouter.POST("/:booking_id/cancel", route.CancelBooking)
	bookingsRouter.POST("/:booking_id/complete", route.CompleteBooking)
}

type SlotRequest struct {
	ListingID   string    `json:"listing_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MaxBookings int       `json:"max_bookings"`
}

type BookingRequest struct {
	SlotID    string    `json:"slot_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Note      string    `json:"note"`
}

// @Summary List open test-drive slots
// @Tags Test drives
// @Produce json
// @Success 200 {object} responses.GeneralResponse[[]booking.Slot]
// @Router /v1/test-drives/slots [get]
func (route *TestDrivesRoute) ListActiveSlots(reqCtx *gin.Context) {
	items, err := route.bookingService.FindActiveSlots(reqCtx.Request.Context())
	if err != nil {
		responses.AbortWithError(reqCtx, "bc166cfa-898c-4a5f-8350-aefa47d65a75", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*booking.Slot]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary Get slot
// @Tags Test drives
// @Produce json
// @Param slot_id path string true "Slot public id"
// @Success 200 {object} responses.GeneralResponse[booking.Slot]
// @Router /v1/test-drives/slots/{slot_id} [get]
func (route *TestDrivesRoute) GetSlot(reqCtx *gin.Context) {
	slot, err := route.bookingService.GetSlot(reqCtx.Request.Context(), reqCtx.Param("slot_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "e6b2799c-8843-4eae-a0e1-a9b104711c37", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*booking.Slot]{
		Status: responses.ResponseCodeOk,
		Result: slot,
	})
}

// @Summary List a seller's slots
// @Tags Test drives
// @Produce json
// @Param seller_id path string true "Seller public id"
// @Success 200 {object} responses.GeneralResponse[[]booking.Slot]
// @Router /v1/test-drives/slots/seller/{seller_id} [get]
func (route *TestDrivesRoute) ListSellerSlots(reqCtx *gin.Context) {
	items, err := route.bookingService.FindSlotsBySeller(reqCtx.Request.Context(), reqCtx.Param("seller_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "44c30080-3279-4d03-9a4c-540e0f0515c9", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*booking.Slot]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary Create slot
// @Tags Test drives
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SlotRequest true "Slot"
// @Success 201 {object} responses.GeneralResponse[booking.Slot]
// @Failure 409 {object} responses.ErrorResponse "Overlaps another slot"
// @Router /v1/test-drives/slots [post]
func (route *TestDrivesRoute) CreateSlot(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request SlotRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "783d0325-32a6-4056-9793-22b828e9c8cd",
			Error: err.Error(),
		})
		return
	}
	slot, err := route.bookingService.CreateSlot(reqCtx.Request.Context(), me, booking.SlotInput{
		ListingID:   request.ListingID,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		MaxBookings: request.MaxBookings,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, "1554fe0e-b34e-4e81-9eb7-2ac83260d694", err)
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[*booking.Slot]{
		Status: responses.ResponseCodeOk,
		Result: slot,
	})
}

// @Summary Update slot
// @Tags Test drives
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slot_id path string true "Slot public id"
// @Param request body SlotRequest true "Fields to change"
// @Success 200 {object} responses.GeneralResponse[booking.Slot]
// @Router /v1/test-drives/slots/{slot_id} [patch]
func (route *TestDrivesRoute) UpdateSlot(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request SlotRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "7a4e3cd0-aa95-4c0f-a2cc-79b7a17671a6",
			Error: err.Error(),
		})
		return
	}
	slot, err := route.bookingService.UpdateSlot(reqCtx.Request.Context(), me, reqCtx.Param("slot_id"), booking.SlotInput{
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		MaxBookings: request.MaxBookings,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, "65ec2100-350c-4c69-acd0-6dec62dab91e", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*booking.Slot]{
		Status: responses.ResponseCodeOk,
		Result: slot,
	})
}

// @Summary Deactivate slot
// @Tags Test drives
// @Security BearerAuth
// @Param slot_id path string true "Slot public id"
// @Success 204
// @Router /v1/test-drives/slots/{slot_id} [delete]
func (route *TestDrivesRoute) DeleteSlot(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	if err := route.bookingService.DeleteSlot(reqCtx.Request.Context(), me, reqCtx.Param("slot_id")); err != nil {
		responses.AbortWithError(reqCtx, "7ee6fe37-73c7-4dc8-8a09-50fef75211b7", err)
		return
	}
	reqCtx.Status(http.StatusNoContent)
}

// @Summary List bookings of a slot
// @Tags Test drives
// @Security BearerAuth
// @Produce json
// @Param slot_id path string true "Slot public id"
// @Success 200 {object} responses.GeneralResponse[[]booking.Booking]
// @Router /v1/test-drives/slots/{slot_id}/bookings [get]
func (route *TestDrivesRoute) ListSlotBookings(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	ctx := reqCtx.Request.Context()
	slot, err := route.bookingService.GetSlot(ctx, reqCtx.Param("slot_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "9c2e8986-e9dd-49f0-a6df-952936c8e672", err)
		return
	}
	if !me.Can(slot.SellerID) {
		reqCtx.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
			Code:  "2c7d51ab-4255-4cc5-9fcd-6e230f24a342",
			Error: "not your slot",
		})
		return
	}
	items, err := route.bookingService.FindBookingsBySlot(ctx, slot.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "ff755eff-55cd-43db-b578-07d5f3eb3296", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*booking.Booking]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary Book a test drive
// @Tags Test drives
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BookingRequest true "Booking"
// @Success 201 {object} responses.GeneralResponse[booking.Booking]
// @Failure 409 {object} responses.ErrorResponse "Slot full or overlapping booking"
// @Router /v1/test-drives/bookings [post]
func (route *TestDrivesRoute) CreateBooking(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request BookingRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "78588605-0f3b-4e54-9c0a-43f86f6799e4",
			Error: err.Error(),
		})
		return
	}
	b, err := route.bookingService.CreateBooking(reqCtx.Request.Context(), me, booking.BookingInput{
		SlotID:    request.SlotID,
		StartTime: request.StartTime,
		EndTime:   request.EndTime,
		Note:      request.Note,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, "3656b3f9-def3-451b-8da2-0820c0866c0b", err)
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[*booking.Booking]{
		Status: responses.ResponseCodeOk,
		Result: b,
	})
}

// @Summary List my bookings
// @Tags Test drives
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[[]booking.Booking]
// @Router /v1/test-drives/bookings/me [get]
func (route *TestDrivesRoute) ListMyBookings(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	items, err := route.bookingService.FindBookingsByUser(reqCtx.Request.Context(), me.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "20ca7df7-19ce-4728-8933-85d3b7ca9b45", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*booking.Booking]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary Get booking
// @Tags Test drives
// @Security BearerAuth
// @Produce json
// @Param booking_id path string true "Booking public id"
// @Success 200 {object} responses.GeneralResponse[booking.Booking]
// @Router /v1/test-drives/bookings/{booking_id} [get]
func (route *TestDrivesRoute) GetBooking(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	b, err := route.bookingService.GetBooking(reqCtx.Request.Context(), me, reqCtx.Param("booking_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "527950fc-d6ca-41c1-9523-8a6792aef29a", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*booking.Booking]{
		Status: responses.ResponseCodeOk,
		Result: b,
	})
}

// @Summary Cancel booking
// @Tags Test drives
// @Security BearerAuth
// @Produce json
// @Param booking_id path string true "Booking public id"
// @Success 200 {object} responses.GeneralResponse[booking.Booking]
// @Router /v1/test-drives/bookings/{booking_id}/cancel [post]
func (route *TestDrivesRoute) CancelBooking(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	b, err := route.bookingService.CancelBooking(reqCtx.Request.Context(), me, reqCtx.Param("booking_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "57b8fa47-09e8-4ce5-8ce4-0dc539879b5f", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*booking.Booking]{
		Status: responses.ResponseCodeOk,
		Result: b,
	})
}

// @Summary Mark booking completed
// @Tags Test drives
// @Security BearerAuth
// @Produce json
// @Param booking_id path string true "Booking public id"
// @Success 200 {object} responses.GeneralResponse[booking.Booking]
// @Router /v1/test-drives/bookings/{booking_id}/complete [post]
func (route *TestDrivesRoute) CompleteBooking(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	b, err := route.bookingService.MarkBookingAsCompleted(reqCtx.Request.Context(), me, reqCtx.Param("booking_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "6aaffe3c-5398-4d10-9504-0eaa1fd03d70", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*booking.Booking]{
		Status: responses.ResponseCodeOk,
		Result: b,
	})
}
