package complaints

import (
	"net/http"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/complaint"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"github.com/gin-gonic/gin"
)

type ComplaintsRoute struct {
	authService      *auth.AuthService
	complaintService *complaint.ComplaintService
}

func NewComplaintsRoute(authService *auth.AuthService, complaintService *complaint.ComplaintService) *ComplaintsRoute {
	return &ComplaintsRoute{
		authService,
		complaintService,
	}
}

func (route *ComplaintsRoute) RegisterRouter(router gin.IRouter) {
	complaintsRouter := router.Group("/complaints", route.authService.Authenticated()...)
	complaintsRouter.POST("", route.CreateComplaint)
	complaintsRouter.GET("/me", route.ListMyComplaints)
	complaintsRouter.GET("/:complaint_id", route.GetComplaint)

	adminRouter := complaintsRouter.Group("", route.authService.RoleMiddleware(user.RoleAdmin))
	adminRouter.GET("", route.ListComplaints)
	adminRouter.PATCH("/:complaint_id/status", route.UpdateComplaintStatus)
}

type CreateComplaintRequest struct {
	OrderID     string `json:"order_id"`
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type UpdateComplaintStatusRequest struct {
	Status     complaint.Status `json:"status" binding:"required"`
	Resolution string           `json:"resolution"`
}

// @Summary File a complaint
// @Tags Complaints
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateComplaintRequest true "Complaint"
// @Success 201 {object} responses.GeneralResponse[complaint.Complaint]
// @Router /v1/complaints [post]
func (route *ComplaintsRoute) CreateComplaint(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request CreateComplaintRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "dccd7651-b49a-4651-8d3b-29547b895e07",
			Error: err.Error(),
		})
		return
	}
	c, err := route.complaintService.Create(reqCtx.Request.Context(), me, complaint.CreateInput{
		OrderID:     request.OrderID,
		Subject:     request.Subject,
		Description: request.Description,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, "eb8fd78f-d618-4a5b-95dc-0bd1520303a8", err)
		return
	}
	reqCtx.JSON(http.StatusCreated, responses.GeneralResponse[*complaint.Complaint]{
		Status: responses.ResponseCodeOk,
		Result: c,
	})
}

// @Summary List my complaints
// @Tags Complaints
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[[]complaint.Complaint]
// @Router /v1/complaints/me [get]
func (route *ComplaintsRoute) ListMyComplaints(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	items, err := route.complaintService.FindByUser(reqCtx.Request.Context(), me.PublicID)
	if err != nil {
		responses.AbortWithError(reqCtx, "fdefe3ba-8168-4c91-8b2c-d54be09c55af", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[[]*complaint.Complaint]{
		Status: responses.ResponseCodeOk,
		Result: items,
	})
}

// @Summary Get complaint
// @Tags Complaints
// @Security BearerAuth
// @Produce json
// @Param complaint_id path string true "Complaint public id"
// @Success 200 {object} responses.GeneralResponse[complaint.Complaint]
// @Router /v1/complaints/{complaint_id} [get]
func (route *ComplaintsRoute) GetComplaint(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	c, err := route.complaintService.FindByID(reqCtx.Request.Context(), me, reqCtx.Param("complaint_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "ee0fe63a-7e41-43a3-9390-d4fa68e5fb38", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*complaint.Complaint]{
		Status: responses.ResponseCodeOk,
		Result: c,
	})
}

// @Summary List complaints
// @Tags Complaints
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param status query string false "Filter by status"
// @Success 200 {object} responses.PageResponse[complaint.Complaint]
// @Router /v1/complaints [get]
func (route *ComplaintsRoute) ListComplaints(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	q, err := query.GetListQueryFromQuery(reqCtx, "status")
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "39d79c96-223e-49b2-87f2-ead1bf5949d1",
			Error: err.Error(),
		})
		return
	}
	page, err := route.complaintService.List(reqCtx.Request.Context(), me, *q)
	if err != nil {
		responses.AbortWithError(reqCtx, "efa63869-b5d3-4515-8d15-0f30c8808e73", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.NewPageResponse(page))
}

// @Summary Update complaint status
// @Tags Complaints
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param complaint_id path string true "Complaint public id"
// @Param request body UpdateComplaintStatusRequest true "New status"
// @Success 200 {object} responses.GeneralResponse[complaint.Complaint]
// @Failure 409 {object} responses.ErrorResponse "Complaint already closed"
// @Router /v1/complaints/{complaint_id}/status [patch]
func (route *ComplaintsRoute) UpdateComplaintStatus(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request UpdateComplaintStatusRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "6182931f-796a-46cf-a550-1b152d5a096b",
			Error: err.Error(),
		})
		return
	}
	c, err := route.complaintService.UpdateStatus(reqCtx.Request.Context(), me, reqCtx.Param("complaint_id"), request.Status, request.Resolution)
	if err != nil {
		responses.AbortWithError(reqCtx, "62156f22-1872-4c52-90ce-d6b0ba8fd2a6", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*complaint.Complaint]{
		Status: responses.ResponseCodeOk,
		Result: c,
	})
}
