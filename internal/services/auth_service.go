package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is deactivated")
)

// AuthService handles authentication against the stored profile
// records: the auth collaborator supplies a stable user id per session
// and this service resolves it to a profile with a role.
type AuthService struct {
	userSvc  *UserService
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userSvc *UserService, userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userSvc:  userSvc,
		userRepo: userRepo,
	}
}

// SignupInput represents self-registration input.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup registers a new account with the default role. Privileged
// roles are only granted afterwards through UserService.UpdateRole.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	return s.userSvc.createUser(ctx, CreateUserInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     models.RoleDeveloper,
	})
}

// Login verifies credentials and returns the profile. Deactivated
// accounts cannot sign in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return user, nil
}

// SessionFor builds the command-layer session for a stored profile,
// resolving legacy role aliases.
func (s *AuthService) SessionFor(user *models.User) Session {
	role, _ := models.ParseRole(string(user.Role))
	return Session{UserID: user.ID, Role: role}
}
