package app

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// requireAuth redirects anonymous visitors to the login page.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) requireAuthAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Please login to access this resource",
			})
			return
		}
		c.Next()
	}
}

func (s *Server) requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if !slices.Contains(roles, u.Role) {
			s.html(c, http.StatusForbidden, "errors/403", gin.H{
				"pageTitle": "Access Denied",
				"message":   "You do not have permission to access this page",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) redirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
