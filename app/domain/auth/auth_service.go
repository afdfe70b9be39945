package auth

import (
	"context"
	"net/http"
	"time"

	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/interfaces/http/requests"
	"evmarket.io/marketplace-api/app/interfaces/http/responses"
	"evmarket.io/marketplace-api/app/utils/functional"
	"github.com/gin-gonic/gin"
)

type AuthService struct {
	userService *user.UserService
}

func NewAuthService(userService *user.UserService) *AuthService {
	return &AuthService{
		userService: userService,
	}
}

type AccessToken struct {
	Token     string     `json:"access_token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

func (s *AuthService) issue(u *user.User) (*AccessToken, error) {
	claim := NewUserClaim(u, time.Now())
	token, err := CreateJwtSignedString(claim)
	if err != nil {
		return nil, err
	}
	return &AccessToken{Token: token, ExpiresAt: claim.ExpiresAt.Time, User: u}, nil
}

func (s *AuthService) Register(ctx context.Context, input user.RegisterInput) (*AccessToken, error) {
	u, err := s.userService.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (*AccessToken, error) {
	u, err := s.userService.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

type UserContextKey string

const (
	UserContextKeyEntity UserContextKey = "UserContextKeyEntity"
	UserContextKeyID     UserContextKey = "UserContextKeyID"
)

func (s *AuthService) JWTAuthMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		tokenString, ok := requests.GetTokenFromBearer(reqCtx)
		if !ok {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code: "55312c8d-4fa4-4ecf-a0a2-6fee16c8d7e0",
			})
			return
		}
		claims, err := ParseJwt(tokenString)
		if err != nil {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code:  "9d7a21c4-d94c-4451-841b-4d9333f86942",
				Error: err.Error(),
			})
			return
		}
		reqCtx.Set(ContextUserClaim, claims)
		SetUserIDToContext(reqCtx, claims.Subject)
		reqCtx.Next()
	}
}

// RegisteredUserMiddleware loads the caller named by the token. It must run after JWTAuthMiddleware.
func (s *AuthService) RegisteredUserMiddleware() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		ctx := reqCtx.Request.Context()
		userPublicId, ok := GetUserIDFromContext(reqCtx)
		if !ok || userPublicId == "" {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code: "3296ce86-783b-4c05-9fdb-930d3713024e",
			})
			return
		}
		u, err := s.userService.FindByPublicID(ctx, userPublicId)
		if err != nil {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code:  "6272df83-f538-421b-93ba-c2b6f6d39f39",
				Error: err.Error(),
			})
			return
		}
		if !u.Enabled {
			reqCtx.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
				Code: "b1ef40e7-9db9-477d-bb59-f3783585195d",
			})
			return
		}
		SetUserToContext(reqCtx, u)
		reqCtx.Next()
	}
}

// RoleMiddleware admits only users holding one of roles. Admins always pass.
func (s *AuthService) RoleMiddleware(roles ...user.Role) gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		u, ok := GetUserFromContext(reqCtx)
		if !ok {
			reqCtx.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code: "417cff16-0325-45f7-9826-8ab24d2fef29",
			})
			return
		}
		if !u.IsAdmin() && !functional.Contains(roles, u.Role) {
			reqCtx.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
				Code:  "c6d6bafd-b9f3-4ebb-9c90-a21b07308ebc",
				Error: "insufficient role",
			})
			return
		}
		reqCtx.Next()
	}
}

// Authenticated is the middleware chain for any signed-in user.
func (s *AuthService) Authenticated() []gin.HandlerFunc {
	return []gin.HandlerFunc{s.JWTAuthMiddleware(), s.RegisteredUserMiddleware()}
}

func GetUserFromContext(reqCtx *gin.Context) (*user.User, bool) {
	v, ok := reqCtx.Get(string(UserContextKeyEntity))
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok
}

func SetUserToContext(reqCtx *gin.Context, u *user.User) {
	reqCtx.Set(string(UserContextKeyEntity), u)
}

func GetUserIDFromContext(reqCtx *gin.Context) (string, bool) {
	userId, ok := reqCtx.Get(string(UserContextKeyID))
	if !ok {
		return "", false
	}
	v, ok := userId.(string)
	if !ok {
		return "", false
	}
	return v, true
}

func SetUserIDToContext(reqCtx *gin.Context, v string) {
	reqCtx.Set(string(UserContextKeyID), v)
}
