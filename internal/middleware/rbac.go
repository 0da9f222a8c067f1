package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cloud-classroom/internal/models"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
	"github.com/noah-isme/cloud-classroom/pkg/response"
)

// RequireRoles admits only sessions holding one of roles. It must run after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		response.Error(c, appErrors.Clone(appErrors.ErrPermissionDenied, claims.Role.String()+"s cannot access this resource"))
		c.Abort()
	}
}
