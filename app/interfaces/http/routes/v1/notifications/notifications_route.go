package notifications

import (
	"net/http"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/notification"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"github.com/gin-gonic/gin"
)

type NotificationsRoute struct {
	authService         *auth.AuthService
	notificationService *notification.NotificationService
}

func NewNotificationsRoute(authService *auth.AuthService, notificationService *notification.NotificationService) *NotificationsRoute {
	return &NotificationsRoute{
		authService,
		notificationService,
	}
}

func (route *NotificationsRoute) RegisterRouter(router gin.IRouter) {
	notificationsRouter := router.Group("/notifications", route.authService.Authenticated()...)
	notificationsRouter.GET("", route.ListNotifications)
	notificationsRouter.GET("/unread-count", route.CountUnread)
	notificationsRouter.POST("/read-all", route.MarkAllAsRead)
	notificationsRouter.POST("/:notification_id/read", route.MarkAsRead)
	notificationsRouter.DELETE("/:notification_id", route.DeleteNotification)
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

type MarkAllResponse struct {
	Updated int64 `json:"updated"`
}

// @Summary List my newest notifications
// @Description Returns at most the 100 newest notifications.
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[[]notification.Notification]
// @Router /v1/notifications [get]
func (route *NotificationsRoute) ListNotifications(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	items, err := route.notificationService.FindByUser(reqCtx.Request.Context(), me.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "836be2c1-77ea-4ab1-b21d-daf5f07d1b36", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*notification.Notification]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary Count unread notifications
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[UnreadCountResponse]
// @Router /v1/notifications/unread-count [get]
func (route *NotificationsRoute) CountUnread(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	n, err := route.notificationService.CountUnread(reqCtx.Request.Context(), me.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "796c13f8-17c3-4a98-91cd-5aea63e05ce4", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[UnreadCountResponse]{
		Status: responses.ResponseCodeOk,
		Result: UnreadCountResponse{Unread: n},
	})
}

// @Summary Mark all notifications read
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[MarkAllResponse]
// @Router /v1/notifications/read-all [post]
func (route *NotificationsRoute) MarkAllAsRead(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	n, err := route.notificationService.MarkAllAsRead(reqCtx.Request.Context(), me.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "746c3186-ac7f-41e2-9fee-b9380e76d3f8", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[MarkAllResponse]{
		Status: responses.ResponseCodeOk,
		Result: MarkAllResponse{Updated: n},
	})
}

// @Summary Mark notification read
// @Tags Notifications
// @Security BearerAuth
// @Produce json
// @Param notification_id path string true "Notification public id"
// @Success 200 {object} responses.GeneralResponse[notification.Notification]
// @Router /v1/notifications/{notification_id}/read [post]
func (route *NotificationsRoute) MarkAsRead(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	n, err := route.notificationService.MarkAsRead(reqCtx.Request.Context(), me, reqCtx.Param("notification_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "6068499d-a103-4252-b9a2-5e6d6ebebd28", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*notification.Notification]{
		Status: responses.ResponseCodeOk,
		Result: n,
	})
}

// @Summary Delete notification
// @Tags Notifications
// @Security BearerAuth
// @Param notification_id path string true "Notification public id"
// @Success 204
// @Router /v1/notifications/{notification_id} [delete]
func (route *NotificationsRoute) DeleteNotification(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	if err := route.notificationService.Delete(reqCtx.Request.Context(), me, reqCtx.Param("notification_id")); err != nil {
		responses.AbortWithError(reqCtx, "c1d346e2-0d78-4797-b251-09aeff022f8b", err)
		return
	}
	reqCtx.Status(http.StatusNoContent)
}
