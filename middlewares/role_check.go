package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/freshpress/juicebar-app/apperror"
	"github.com/freshpress/juicebar-app/models"
	"github.com/freshpress/juicebar-app/utils"
)

// AdminOnly rejects any session whose role claim is not admin. It runs
// after AuthMiddleware, which puts the role into the context.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.RespondAppError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		if role != models.RoleAdmin {
			utils.RespondAppError(c, apperror.ErrAdminOnly)
			c.Abort()
			return
		}

		c.Next()
	}
}
