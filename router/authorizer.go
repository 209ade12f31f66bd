package router

import (
	"net/http"
	"net/url"

	"fusevip/controllers"

	"github.com/gin-gonic/gin"
)

// ProtectedPage guards server-rendered pages. Anonymous visitors go to the
// login form with the requested path preserved; signed in users lacking the
// role or a business go back to their dashboard.
func ProtectedPage(requiredRole string, businessOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := controllers.GetSession(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}

		if requiredRole != "" && !session.HasRole(requiredRole) {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		if businessOnly && !session.IsBusinessOwner {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}

		c.Next()
	}
}

// LegacyRedirects sends old marketing links to their current location.
func LegacyRedirects() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/register" {
			if _, ok := c.Request.URL.Query()["redirect_to_reviews"]; ok {
				c.Redirect(http.StatusFound, "/register")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
