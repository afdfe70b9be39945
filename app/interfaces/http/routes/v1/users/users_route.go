package users

import (
	"net/http"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"github.com/gin-gonic/gin"
)

type UsersRoute struct {
	authService *auth.AuthService
	userService *user.UserService
}

func NewUsersRoute(authService *auth.AuthService, userService *user.UserService) *UsersRoute {
	return &UsersRoute{
		authService,
		userService,
	}
}

func (route *UsersRoute) RegisterRouter(router gin.IRouter) {
	usersRouter := router.Group("/users", route.authService.Authenticated()...)
	usersRouter.PATCH("/me", route.UpdateMe)

	adminOnly := route.authService.RoleMiddleware(user.RoleAdmin)
	usersRouter.GET("", adminOnly, route.ListUsers)
	usersRouter.GET("/:user_id", adminOnly, route.GetUser)
	usersRouter.PATCH("/:user_id/role", adminOnly, route.SetRole)
	usersRouter.DELETE("/:user_id", adminOnly, route.DeleteUser)
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type SetRoleRequest struct {
	Role user.Role `json:"role" binding:"required"`
}

// @Summary Update own profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} responses.GeneralResponse[user.User]
// @Router /v1/users/me [patch]
func (route *UsersRoute) UpdateMe(reqCtx *gin.Context) {
	me, _ := auth.GetUserFromContext(reqCtx)
	var request UpdateProfileRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "975d2306-cbb7-4731-be7b-7f8881557ab1",
			Error: err.Error(),
		})
		return
	}
	updated, err := route.userService.UpdateProfile(reqCtx.Request.Context(), me.PublicID, user.ProfileUpdate{
		Name:  request.Name,
		Phone: request.Phone,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, "3f7fa821-577f-45da-ae63-966847a44315", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*user.User]{
		Status: responses.ResponseCodeOk,
		Result: updated,
	})
}

// @Summary List users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param search query string false "Matches name or email"
// @Param role query string false "buyer, seller or admin"
// @Success 200 {object} responses.PageResponse[user.User]
// @Router /v1/users [get]
func (route *UsersRoute) ListUsers(reqCtx *gin.Context) {
	q, err := query.GetListQueryFromQuery(reqCtx, "role")
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "769dd4ec-fe72-49f0-85c6-f05340ba56ca",
			Error: err.Error(),
		})
		return
	}
	page, err := route.userService.List(reqCtx.Request.Context(), *q)
	if err != nil {
		responses.AbortWithError(reqCtx, "2e9bc240-e8ac-4c89-bb90-aaad8f3a473d", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.NewPageResponse(page))
}

// @Summary Get user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "User public id"
// @Success 200 {object} responses.GeneralResponse[user.User]
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/users/{user_id} [get]
func (route *UsersRoute) GetUser(reqCtx *gin.Context) {
	u, err := route.userService.FindByPublicID(reqCtx.Request.Context(), reqCtx.Param("user_id"))
	if err != nil {
		responses.AbortWithError(reqCtx, "8b74da97-4b14-4dfe-a036-8bce16148f49", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*user.User]{
		Status: responses.ResponseCodeOk,
		Result: u,
	})
}

// @Summary Change a user's role
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user_id path string true "User public id"
// @Param request body SetRoleRequest true "New role"
// @Success 200 {object} responses.GeneralResponse[user.User]
// @Router /v1/users/{user_id}/role [patch]
func (route *UsersRoute) SetRole(reqCtx *gin.Context) {
	var request SetRoleRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "a5eb28b7-ad3f-46b7-a0a1-7dd01443d126",
			Error: err.Error(),
		})
		return
	}
	u, err := route.userService.SetRole(reqCtx.Request.Context(), reqCtx.Param("user_id"), request.Role)
	if err != nil {
		responses.AbortWithError(reqCtx, "eeb658af-5928-494e-ae57-0b79ed1940a8", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*user.User]{
		Status: responses.ResponseCodeOk,
		Result: u,
	})
}

// @Summary Delete user
// @Tags Users
// @Security BearerAuth
// @Param user_id path string true "User public id"
// @Success 204
// @Router /v1/users/{user_id} [delete]
func (route *UsersRoute) DeleteUser(reqCtx *gin.Context) {
	if err := route.userService.Delete(reqCtx.Request.Context(), reqCtx.Param("user_id")); err != nil {
		responses.AbortWithError(reqCtx, "d0d090bd-4743-40be-bdce-52c3b09fcd4d", err)
		return
	}
	reqCtx.Status(http.StatusNoContent)
}
