package router

import (
	"net/http"

	"fusevip/controllers"

	"github.com/gin-gonic/gin"
)

// RequireRole blocks API calls from users that hold the role in neither
// role table. Must run after controllers.AuthRequired.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := controllers.GetSession(c)
		if !ok {
			controllers.RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if !session.HasRole(role) {
			controllers.RespondError(c, role+" role required", http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// BusinessOnly blocks API calls from users that own no business.
func BusinessOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := controllers.GetSession(c)
		if !ok {
			controllers.RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if !session.IsBusinessOwner {
			controllers.RespondError(c, "business account required", http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
