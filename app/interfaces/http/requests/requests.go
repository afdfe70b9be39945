package requests

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func GetTokenFromBearer(reqCtx *gin.Context) (string, bool) {
	authHeader := reqCtx.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
