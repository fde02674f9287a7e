package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studentfolio/internal/auth"
	"studentfolio/internal/errcode"
)

// 上下文 key。
const (
	UserIDKey      = "userID"
	UserEmailKey   = "userEmail"
	AccessTokenKey = "accessToken"
)

// TokenValidator 校验外部认证服务签发的访问令牌。
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.TokenClaims, error)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": errcode.Unauthorized})
}

// AuthMiddleware 校验访问令牌并将 userID 注入上下文。
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := validator.ValidateToken(rawToken)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(AccessTokenKey, rawToken)
		c.Next()
	}
}

// BearerToken 从 Authorization 头中取出 token。
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	if strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}
