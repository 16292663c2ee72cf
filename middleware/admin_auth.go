package middleware

import (
	"net/http"

	"github.com/bestellboard/bestellboard-api/services"
	"github.com/gin-gonic/gin"
)

// AdminTokenHeader carries the admin token on catalog mutations.
const AdminTokenHeader = "X-Admin-Token"

// RequireAdminToken is a middleware that validates the admin token
// before any catalog mutation runs. The request is validated and then
// rejected with no partial effect; handlers behind this middleware can
// assume authorization already happened.
func RequireAdminToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authorizer := services.GetAdminAuthorizer()
		if authorizer == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    services.CodeNotConfigured,
					"message": "Admin authorization is not configured",
				},
			})
			c.Abort()
			return
		}

		if err := authorizer.Authorize(c.GetHeader(AdminTokenHeader)); err != nil {
			status := http.StatusForbidden
			if services.IsCode(err, services.CodeNotConfigured) {
				status = http.StatusServiceUnavailable
			}
			c.JSON(status, gin.H{
				"success": false,
				"error": gin.H{
					"code":    services.ErrorCode(err),
					"message": err.Error(),
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
