package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	userRepo repository.UserRepository
	service  *UserService
}

// SetupTest runs before each test
func (suite *UserServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	suite.userRepo = repository.NewUserRepository(suite.db)
	suite.service = NewUserService(suite.userRepo)
}

// TearDownTest runs after each test
func (suite *UserServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserServiceTestSuite) createTestUser(role models.Role, active bool) *models.User {
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     active,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *UserServiceTestSuite) adminSession() Session {
	admin := suite.createTestUser(models.RoleAdmin, true)
	return Session{UserID: admin.ID, Role: admin.Role}
}

func (suite *UserServiceTestSuite) TestCreateUserDefaults() {
	sess := suite.adminSession()

	user, err := suite.service.CreateUser(context.Background(), sess, CreateUserInput{
		Name:     "  Ada Lovelace  ",
		Email:    "Ada@Example.COM",
		Password: "correct horse",
	})
	suite.Require().NoError(err)

	suite.Equal("Ada Lovelace", user.Name)
	suite.Equal("ada@example.com", user.Email)
	suite.Equal(models.RoleDeveloper, user.Role)
	suite.True(user.IsActive)
	suite.Contains(user.Avatar, "ui-avatars.com")
	suite.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")))
}

func (suite *UserServiceTestSuite) TestCreateUserValidation() {
	sess := suite.adminSession()
	ctx := context.Background()

	_, err := suite.service.CreateUser(ctx, sess, CreateUserInput{Email: "a@b.com", Password: "longenough"})
	suite.ErrorIs(err, ErrNameRequired)

	_, err = suite.service.CreateUser(ctx, sess, CreateUserInput{Name: "A", Password: "longenough"})
	suite.ErrorIs(err, ErrEmailRequired)

	_, err = suite.service.CreateUser(ctx, sess, CreateUserInput{Name: "A", Email: "a@b.com", Password: "short"})
	suite.ErrorIs(err, ErrPasswordTooShort)

	_, err = suite.service.CreateUser(ctx, sess, CreateUserInput{Name: "A", Email: "a@b.com", Password: "longenough", Role: "janitor"})
	suite.ErrorIs(err, ErrUnknownRole)
}

func (suite *UserServiceTestSuite) TestCreateUserEmailTaken() {
	sess := suite.adminSession()
	existing := suite.createTestUser(models.RoleDeveloper, true)

	_, err := suite.service.CreateUser(context.Background(), sess, CreateUserInput{
		Name:     "Copycat",
		Email:    existing.Email,
		Password: "longenough",
	})
	suite.ErrorIs(err, ErrEmailTaken)
}

func (suite *UserServiceTestSuite) TestCreateUserPermissionDenied() {
	dev := suite.createTestUser(models.RoleDeveloper, true)
	sess := Session{UserID: dev.ID, Role: dev.Role}

	_, err := suite.service.CreateUser(context.Background(), sess, CreateUserInput{
		Name:     "Nope",
		Email:    "nope@example.com",
		Password: "longenough",
	})
	suite.ErrorIs(err, ErrPermissionDenied)
}

func (suite *UserServiceTestSuite) TestCreateUserLegacyRoleAlias() {
	sess := suite.adminSession()

	user, err := suite.service.CreateUser(context.Background(), sess, CreateUserInput{
		Name:     "Old Timer",
		Email:    "old@example.com",
		Password: "longenough",
		Role:     "manager",
	})
	suite.Require().NoError(err)
	suite.Equal(models.RoleAdmin, user.Role)
}

func (suite *UserServiceTestSuite) TestWildcardRoleConflict() {
	sess := suite.adminSession()
	holder := suite.createTestUser(models.RoleSuperAdmin, true)
	target := suite.createTestUser(models.RoleDeveloper, true)

	_, err := suite.service.UpdateRole(context.Background(), sess, target.ID, models.RoleSuperAdmin)
	suite.ErrorIs(err, ErrRoleConflict)

	// Neither side changed.
	kept, err := suite.userRepo.FindByID(context.Background(), holder.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleSuperAdmin, kept.Role)
	unchanged, err := suite.userRepo.FindByID(context.Background(), target.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleDeveloper, unchanged.Role)
}

func (suite *UserServiceTestSuite) TestWildcardRoleConflictWithLegacyAliasHolder() {
	sess := suite.adminSession()
	holder := suite.createTestUser("super_manager", true)
	target := suite.createTestUser(models.RoleDeveloper, true)

	_, err := suite.service.UpdateRole(context.Background(), sess, target.ID, models.RoleSuperAdmin)
	suite.ErrorIs(err, ErrRoleConflict)

	kept, err := suite.userRepo.FindByID(context.Background(), holder.ID)
	suite.Require().NoError(err)
	suite.Equal(models.Role("super_manager"), kept.Role)
}

func (suite *UserServiceTestSuite) TestWildcardFreedByDeactivation() {
	sess := suite.adminSession()
	holder := suite.createTestUser(models.RoleSuperAdmin, false)
	target := suite.createTestUser(models.RoleDeveloper, true)
	suite.Require().False(holder.IsActive)

	updated, err := suite.service.UpdateRole(context.Background(), sess, target.ID, models.RoleSuperAdmin)
	suite.Require().NoError(err)
	suite.Equal(models.RoleSuperAdmin, updated.Role)
}

func (suite *UserServiceTestSuite) TestSelfRoleChangeForbidden() {
	sess := suite.adminSession()

	_, err := suite.service.UpdateRole(context.Background(), sess, sess.UserID, models.RoleDeveloper)
	suite.ErrorIs(err, ErrSelfRoleChange)
}

func (suite *UserServiceTestSuite) TestSelfDeactivationForbidden() {
	sess := suite.adminSession()

	err := suite.service.DeactivateUser(context.Background(), sess, sess.UserID)
	suite.ErrorIs(err, ErrSelfDeactivation)
}

func (suite *UserServiceTestSuite) TestDeactivateUser() {
	sess := suite.adminSession()
	target := suite.createTestUser(models.RoleDeveloper, true)

	suite.Require().NoError(suite.service.DeactivateUser(context.Background(), sess, target.ID))

	// Profile survives so existing task references keep resolving.
	kept, err := suite.userRepo.FindByID(context.Background(), target.ID)
	suite.Require().NoError(err)
	suite.False(kept.IsActive)
	suite.Equal(target.Name, kept.Name)
}

func (suite *UserServiceTestSuite) TestUpdateRoleUnknownUser() {
	sess := suite.adminSession()

	_, err := suite.service.UpdateRole(context.Background(), sess, "missing", models.RoleDesigner)
	suite.ErrorIs(err, ErrUserNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
