package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/teamboard/teamboard-api/internal/errors"
	"github.com/teamboard/teamboard-api/internal/permissions"
)

// RequirePermission rejects requests whose session role lacks the
// capability. The service layer re-checks on every command; this
// middleware only short-circuits the obvious denials before any work
// happens.
func RequirePermission(cap permissions.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !permissions.HasPermission(sess.Role, cap) {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}
