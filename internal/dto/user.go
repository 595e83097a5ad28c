package dto

import (
	"time"

	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/permissions"
)

// UserDTO represents a team member in API responses
type UserDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	Avatar    string      `json:"avatar"`
	CreatedAt time.Time   `json:"created_at"`
}

// ProfileDTO is the signed-in user's own profile, including the
// capability set derived from the role.
type ProfileDTO struct {
	UserDTO
	Capabilities []permissions.Capability `json:"capabilities"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}

// ToProfileDTO converts a User model to ProfileDTO
func ToProfileDTO(user models.User) ProfileDTO {
	role, _ := models.ParseRole(string(user.Role))
	return ProfileDTO{
		UserDTO:      ToUserDTO(user),
		Capabilities: permissions.Capabilities(role),
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}
