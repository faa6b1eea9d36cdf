package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/JobConnect/internal/models"
	"github.com/justsurfingit/JobConnect/internal/services"
)

const userKey = "user"

// RequireLogin rejects requests until someone has verified an OTP.
func RequireLogin(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := sessions.CurrentUser()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": services.ErrNotLoggedIn.Error()})
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// RequireAdmin must run after RequireLogin. The admin role is a demo
// convention and guards nothing of value.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) models.User {
	u, _ := c.Get(userKey)
	user, _ := u.(models.User)
	return user
}
