package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/permissions"
	"github.com/teamboard/teamboard-api/internal/repository"
	"github.com/teamboard/teamboard-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrUnknownRole      = errors.New("unknown role")
	ErrRoleConflict     = errors.New("wildcard role is already held by another user")
	ErrSelfRoleChange   = errors.New("actors cannot change their own role")
	ErrSelfDeactivation = errors.New("actors cannot deactivate their own account")
)

const minPasswordLength = 8

// UserService handles team administration: creating users, assigning
// roles, and deactivating accounts. Role assignment enforces the
// single-wildcard-holder invariant globally, and an actor can neither
// demote nor deactivate themselves through this layer.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents input for creating a team member.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// CreateUser registers a new team member with a hashed password and a
// generated avatar. Requires manage_users.
func (s *UserService) CreateUser(ctx context.Context, sess Session, input CreateUserInput) (*models.User, error) {
	if !permissions.HasPermission(sess.Role, permissions.CapManageUsers) {
		return nil, ErrPermissionDenied
	}
	return s.createUser(ctx, input)
}

func (s *UserService) createUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := input.Role
	if role == "" {
		role = models.RoleDeveloper
	}
	role, ok := models.ParseRole(string(role))
	if !ok {
		return nil, ErrUnknownRole
	}

	if role == permissions.WildcardRole {
		if err := s.ensureWildcardFree(ctx); err != nil {
			return nil, err
		}
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		Avatar:       utils.AvatarURL(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return user, nil
}

// UpdateRole re-assigns a user's role. The wildcard role may be held by
// at most one active user system-wide; assigning it while another user
// holds it fails with ErrRoleConflict and leaves the holder unchanged.
func (s *UserService) UpdateRole(ctx context.Context, sess Session, userID string, role models.Role) (*models.User, error) {
	if !permissions.HasPermission(sess.Role, permissions.CapManageUsers) {
		return nil, ErrPermissionDenied
	}
	if sess.UserID == userID {
		return nil, ErrSelfRoleChange
	}

	role, ok := models.ParseRole(string(role))
	if !ok {
		return nil, ErrUnknownRole
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if role == permissions.WildcardRole && user.Role != permissions.WildcardRole {
		if err := s.ensureWildcardFree(ctx, userID); err != nil {
			return nil, err
		}
	}

	user.Role = role
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return user, nil
}

// DeactivateUser soft-deletes an account: the profile stays so task
// references keep resolving, but the user can no longer sign in or be
// assigned. Tasks are never cascaded.
func (s *UserService) DeactivateUser(ctx context.Context, sess Session, userID string) error {
	if !permissions.HasPermission(sess.Role, permissions.CapManageUsers) {
		return ErrPermissionDenied
	}
	if sess.UserID == userID {
		return ErrSelfDeactivation
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	user.IsActive = false
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return nil
}

// ListUsers returns one page of the team roster and the total count.
// Requires manage_users.
func (s *UserService) ListUsers(ctx context.Context, sess Session, params utils.PaginationParams) ([]models.User, int64, error) {
	if !permissions.HasPermission(sess.Role, permissions.CapManageUsers) {
		return nil, 0, ErrPermissionDenied
	}
	users, total, err := s.userRepo.ListPage(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return users, total, nil
}

// GetUser returns one profile.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.findUser(ctx, userID)
}

func (s *UserService) findUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return user, nil
}

func (s *UserService) ensureWildcardFree(ctx context.Context, excludeIDs ...string) error {
	count, err := s.userRepo.CountActiveByRole(ctx, permissions.WildcardRole, excludeIDs...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if count > 0 {
		return ErrRoleConflict
	}
	return nil
}
