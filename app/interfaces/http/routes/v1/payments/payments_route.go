package payments

import (
	"net/http"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/order"
	"evmarket.io/marketplace-api/app/domain/payment"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"github.com/gin-gonic/gin"
)

const callbackSecretHeader = "X-Callback-Secret"

type PaymentsRoute struct {
	authService    *auth.AuthService
	paymentService *payment.PaymentService
	orderService   *order.OrderService
}

func NewPaymentsRoute(authService *auth.AuthService, paymentService *payment.PaymentService, orderService *order.OrderService) *PaymentsRoute {
	return &PaymentsRoute{
		authService,
		paymentService,
		orderService,
	}
}

func (route *PaymentsRoute) RegisterRouter(router gin.IRouter) {
	paymentsRouter := router.Group("/payments")
	paymentsRouter.POST("/callback", route.HandleCallback)

	authed := paymentsRouter.Group("", route.authService.Authenticated()...)
	authed.POST("", route.CreatePayment)
	authed.GET("/me", route.ListMyPayments)
	authed.GET("/order/:order_id", route.ListOrderPayments)
	authed.GET("/:payment_id", route.GetPayment)
	authed.POST("/:payment_id/refund", route.authService.RoleMiddleware(user.RoleAdmin), route.Refund)
}

type CreatePaymentRequest struct {
	OrderID string         `json:"order_id" binding:"required"`
	Method  payment.Method `json:"method"`
}

type CallbackRequest struct {
	GatewayRef string         `json:"id" binding:"required"`
	Status     payment.Status `json:"status" binding:"required"`
}

// @Summary Start a payment
// @Description Registers the payment with the gateway and returns its checkout URL.
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreatePaymentRequest true "Payment"
// @Success 201 {object} responses.GeneralResponse[payment.Payment]
// @Router /v1/payments [post]
func (route *PaymentsRoute) CreatePayment(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request CreatePaymentRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "7dd0694d-1a13-4485-8ca3-2d19d1b8643a",
			Error: err.Error(),
		})
		return
	}
	p, err := route.paymentService.CreatePayment(reqCtx.Request.Context(), me, request.OrderID, request.Method)
	if err != nil {
		responses.AbortWithError(reqCtx, "2b099a7b-3154-47e9-938d-28f06d8df3d8", err)
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[*payment.Payment]{
		Status: responses.ResponseCodeOk,
		Result: p,
	})
}

// @Summary Gateway callback
// @Description Receives asynchronous status updates from the payment gateway.
// @Tags Payments
// @Accept json
// @Produce json
// @Param X-Callback-Secret header string true "Shared secret"
// @Param request body CallbackRequest true "Gateway status report"
// @Success 200 {object} responses.GeneralResponse[payment.Payment]
// @Failure 403 {object} responses.ErrorResponse
// @Router /v1/payments/callback [post]
func (route *PaymentsRoute) HandleCallback(reqCtx *gin.Context) {
	var request CallbackRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "2c20108d-39bc-49f2-a865-c4da59f3bbb2",
			Error: err.Error(),
		})
		return
	}
	p, err := route.paymentService.HandleCallback(reqCtx.Request.Context(), payment.Callback{
		GatewayRef: request.GatewayRef,
		Status:     request.Status,
		Secret:     reqCtx.GetHeader(callbackSecretHeader),
	})
	if err != nil {
		responses.AbortWithError(reqCtx, "ba291dc2-0e80-449e-a1b9-881ea0b6f8c2", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*payment.Payment]{
		Status: responses.ResponseCodeOk,
		Result: p,
	})
}

// @Summary List my payments
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[[]payment.Payment]
// @Router /v1/payments/me [get]
func (route *PaymentsRoute) ListMyPayments(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	items, err := route.paymentService.FindByUser(reqCtx.Request.Context(), me.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "45477a76-d21d-4800-8282-7d7bc96bc3a3", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*payment.Payment]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary List payments of an order
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param order_id path string true "Order public id"
// @Success 200 {object} responses.GeneralResponse[[]payment.Payment]
// @Router /v1/payments/order/{order_id} [get]
func (route *PaymentsRoute) ListOrderPayments(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	ctx := reqCtx.Request.Context()
	o, err := route.orderService.FindVisible(ctx, me, reqCtx.Param("order_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "079755ff-aa12-4c74-99e1-9a99407f4d8e", err)
		return
	}
	items, err := route.paymentService.FindByOrder(ctx, o.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "1cdddb54-bca1-46da-8a87-fa5f1d1cbc05", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*payment.Payment]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary Get payment
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param payment_id path string true "Payment public id"
// @Success 200 {object} responses.GeneralResponse[payment.Payment]
// @Router /v1/payments/{payment_id} [get]
func (route *PaymentsRoute) GetPayment(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	p, err := route.paymentService.FindVisible(reqCtx.Request.Context(), me, reqCtx.Param("payment_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "2ef63bab-2ea9-4bf2-837b-ceb4df88db64", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*payment.Payment]{
		Status: responses.ResponseCodeOk,
		Result: p,
	})
}

// @Summary Refund payment
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param payment_id path string true "Payment public id"
// @Success 200 {object} responses.GeneralResponse[payment.Payment]
// @Router /v1/payments/{payment_id}/refund [post]
func (route *PaymentsRoute) Refund(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	p, err := route.paymentService.Refund(reqCtx.Request.Context(), me, reqCtx.Param("payment_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "e59545ba-8c56-4d64-a235-c161dc728a53", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*payment.Payment]{
		Status: responses.ResponseCodeOk,
		Result: p,
	})
}
