package services

import (
	"github.com/teamboard/teamboard-api/internal/models"
)

// Session identifies the acting user for one command. It is passed
// explicitly on every call; there is no module-level current user.
type Session struct {
	UserID string
	Role   models.Role
}
