package orders

import (
	"net/http"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/order"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"github.com/gin-gonic/gin"
)

type OrdersRoute struct {
	authService  *auth.AuthService
	orderService *order.OrderService
}

func NewOrdersRoute(authService *auth.AuthService, orderService *order.OrderService) *OrdersRoute {
	return &OrdersRoute{
		authService,
		orderService,
	}
}

func (route *OrdersRoute) RegisterRouter(router gin.IRouter) {
	ordersRouter := router.Group("/orders", route.authService.Authenticated()...)
	ordersRouter.POST("", route.CreateOrder)
	ordersRouter.GET("/me", route.ListMyOrders)
	ordersRouter.GET("/sales", route.authService.RoleMiddleware(user.RoleSeller), route.ListMySales)
	ordersRouter.GET("", route.authService.RoleMiddleware(user.RoleAdmin), route.ListOrders)
	ordersRouter.GET("/:order_id", route.GetOrder)
	ordersRouter.PATCH("/:order_id/status", route.UpdateStatus)
	ordersRouter.POST("/:order_id/cancel", route.CancelOrder)
}

type CreateOrderRequest struct {
	ListingID       string `json:"listing_id" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	Note            string `json:"note"`
}

type UpdateStatusRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// @Summary Place an order
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order"
// @Success 201 {object} responses.GeneralResponse[order.Order]
// @Failure 409 {object} responses.ErrorResponse "Listing not available"
// @Router /v1/orders [post]
func (route *OrdersRoute) CreateOrder(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request CreateOrderRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "9f019193-4762-4964-942d-217659aa9ae3",
			Error: err.Error(),
		})
		return
	}
	o, err := route.orderService.Create(reqCtx.Request.Context(), me, order.CreateInput{
		ListingID:       request.ListingID,
		ShippingAddress: request.ShippingAddress,
		Note:            request.Note,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, "877f0872-3a6f-473d-aa9c-8c1e30d36500", err)
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[*order.Order]{
		Status: responses.ResponseCodeOk,
		Result: o,
	})
}

// @Summary List my purchases
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[[]order.Order]
// @Router /v1/orders/me [get]
func (route *OrdersRoute) ListMyOrders(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	items, err := route.orderService.FindByUser(reqCtx.Request.Context(), me.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "d66cc8bf-9121-4b46-b93b-80ccc18f0787", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*order.Order]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary List my sales
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[[]order.Order]
// @Router /v1/orders/sales [get]
func (route *OrdersRoute) ListMySales(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	items, err := route.orderService.FindBySeller(reqCtx.Request.Context(), me.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "10d744c7-27c5-445f-b710-6435570cfed2", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*order.Order]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary List all orders
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param status query string false "Status filter"
// @Success 200 {object} responses.PageResponse[order.Order]
// @Router /v1/orders [get]
func (route *OrdersRoute) ListOrders(reqCtx *gin.Context) {
	q, err := query.GetListQueryFromQuery(reqCtx, "status")
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "b78c4240-3e3c-4881-9f17-4dea88f22151",
			Error: err.Error(),
		})
		return
	}
	page, err := route.orderService.List(reqCtx.Request.Context(), *q)
	if err != nil {
		responses.AbortWithError(reqCtx, "825b1a16-a4db-4b39-b342-91372296ad3a", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.NewPageResponse(page))
}

// @Summary Get order
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param order_id path string true "Order public id"
// @Success 200 {object} responses.GeneralResponse[order.Order]
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/orders/{order_id} [get]
func (route *OrdersRoute) GetOrder(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	o, err := route.orderService.FindVisible(reqCtx.Request.Context(), me, reqCtx.Param("order_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "168e74fa-fde3-4c6f-965e-c7ba25250cce", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*order.Order]{
		Status: responses.ResponseCodeOk,
		Result: o,
	})
}

// @Summary Advance order status
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param order_id path string true "Order public id"
// @Param request body UpdateStatusRequest true "Next status"
// @Success 200 {object} responses.GeneralResponse[order.Order]
// @Failure 409 {object} responses.ErrorResponse "Transition not allowed"
// @Router /v1/orders/{order_id}/status [patch]
func (route *OrdersRoute) UpdateStatus(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request UpdateStatusRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "4de08cab-252a-42a6-afb4-1ba15b1b80d8",
			Error: err.Error(),
		})
		return
	}
	o, err := route.orderService.UpdateStatus(reqCtx.Request.Context(), me, reqCtx.Param("order_id"), request.Status)
	if err != nil {
		responses.AbortWithError(reqCtx, "c296cb61-49ad-43d2-9e64-8b61cacfc2df", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*order.Order]{
		Status: responses.ResponseCodeOk,
		Result: o,
	})
}

// @Summary Cancel order
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param order_id path string true "Order public id"
// @Success 200 {object} responses.GeneralResponse[order.Order]
// @Router /v1/orders/{order_id}/cancel [post]
func (route *OrdersRoute) CancelOrder(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	o, err := route.orderService.CancelOrder(reqCtx.Request.Context(), me, reqCtx.Param("order_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "8cdd934a-2659-41b8-855f-76052cc56e50", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*order.Order]{
		Status: responses.ResponseCodeOk,
		Result: o,
	})
}
