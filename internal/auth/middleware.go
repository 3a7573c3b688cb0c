package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session and context keys for the authenticated user's id.
const (
	SessionKeyUserID = "user_id"
	ContextKeyUserID = "user_id"
)

// RequireAuth ensures the request carries a session identifying a user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must log in!"})
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// OptionalAuth sets the user id in the request context when a session is
// present, and lets the request through either way. Content endpoints use
// this: the AI call happens regardless, persistence only for known users.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := sessionUserID(c); ok {
			c.Set(ContextKeyUserID, userID)
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id from the request
// context, if any.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

func sessionUserID(c *gin.Context) (uint, bool) {
	session := sessions.Default(c)
	value := session.Get(SessionKeyUserID)
	if value == nil {
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
