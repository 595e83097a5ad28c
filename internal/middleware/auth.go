package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/database"
	apierrors "github.com/teamboard/teamboard-api/internal/errors"
	"github.com/teamboard/teamboard-api/internal/models"
	svc "github.com/teamboard/teamboard-api/internal/services"
)

// RequireAuth resolves the cookie session to a stored profile and puts
// an explicit command-layer session into the request context. A
// deactivated account is treated as signed out.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(constants.ContextKeyUserID).(string)
		if !ok || userID == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, "id = ?", userID).Error; err != nil || !user.IsActive {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		role, _ := models.ParseRole(string(user.Role))
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeySession, svc.Session{UserID: user.ID, Role: role})
		c.Next()
	}
}

// GetSession retrieves the command-layer session from context.
func GetSession(c *gin.Context) (svc.Session, bool) {
	value, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return svc.Session{}, false
	}
	sess, ok := value.(svc.Session)
	return sess, ok
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}
