package auth

import (
	"errors"
	"net/http"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"github.com/gin-gonic/gin"
)

type AuthRoute struct {
	authService *auth.AuthService
}

func NewAuthRoute(authService *auth.AuthService) *AuthRoute {
	return &AuthRoute{
		authService,
	}
}

func (authRoute *AuthRoute) RegisterRouter(router gin.IRouter) {
	authRouter := router.Group("/auth")
	authRouter.POST("/register", authRoute.Register)
	authRouter.POST("/login", authRoute.Login)
	authRouter.GET("/me",
		authRoute.authService.JWTAuthMiddleware(),
		authRoute.authService.RegisteredUserMiddleware(),
		authRoute.GetMe,
	)
}

type RegisterRequest struct {
	Name     string    `json:"name" binding:"required"`
	Email    string    `json:"email" binding:"required"`
	Password string    `json:"password" binding:"required"`
	Phone    string    `json:"phone"`
	Role     user.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Register
// @Description Creates a buyer or seller account and returns an access token.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 200 {object} responses.GeneralResponse[auth.AccessToken]
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Email already registered"
// @Router /v1/auth/register [post]
func (authRoute *AuthRoute) Register(reqCtx *gin.Context) {
	var request RegisterRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "3aadca95-99f5-4812-92cf-0f199a8efafc",
			Error: err.Error(),
		})
		return
	}
	token, err := authRoute.authService.Register(reqCtx.Request.Context(), user.RegisterInput{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
		Phone:    request.Phone,
		Role:     request.Role,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, "1078047b-967b-4c8d-a09a-8b378ad46f93", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*auth.AccessToken]{
		Status: responses.ResponseCodeOk,
		Result: token,
	})
}

// @Summary Login
// @Description Exchanges email and password for an access token.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} responses.GeneralResponse[auth.AccessToken]
// @Failure 401 {object} responses.ErrorResponse "Invalid credentials"
// @Failure 403 {object} responses.ErrorResponse "Account disabled"
// @Router /v1/auth/login [post]
func (authRoute *AuthRoute) Login(reqCtx *gin.Context) {
	var request LoginRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "13e5e852-e91e-47dc-99a4-80a5f894b965",
			Error: err.Error(),
		})
		return
	}
	token, err := authRoute.authService.Login(reqCtx.Request.Context(), request.Email, request.Password)
	if errors.Is(err, common.ErrInvalidArgument) {
		reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
			Code:  "432724bc-81ed-4623-8550-e7de07e85895",
			Error: "invalid email or password",
		})
		return
	}
	if err != nil {
		responses.AbortWithError(reqCtx, "8331470f-11ae-433b-85a5-782166098303", err)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*auth.AccessToken]{
		Status: responses.ResponseCodeOk,
		Result: token,
	})
}

// @Summary Get user profile
// @Description Retrieves the profile of the authenticated user based on the provided JWT.
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.GeneralResponse[user.User]
// @Failure 401 {object} responses.ErrorResponse "Unauthorized (e.g., missing or invalid JWT)"
// @Router /v1/auth/me [get]
func (authRoute *AuthRoute) GetMe(reqCtx *gin.Context) {
	u, _ := auth.GetUserFromContext(reqCtx)
	reqCtx.JSON(http.StatusOK, responses.GeneralResponse[*user.User]{
		Status: responses.ResponseCodeOk,
		Result: u,
	})
}
