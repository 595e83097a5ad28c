package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/database"
	"github.com/teamboard/teamboard-api/internal/dto"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/repository"
	"github.com/teamboard/teamboard-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// UserHandlerTestSuite defines the test suite for UserHandler
type UserHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *UserHandler
}

// SetupTest runs before each test
func (suite *UserHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	suite.handler = NewUserHandler(services.NewUserService(userRepo))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *UserHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserHandlerTestSuite) createTestUser(role models.Role) *models.User {
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *UserHandlerTestSuite) createAuthContext(method, url string, body []byte, sess services.Session) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, sess.UserID)
	c.Set(constants.ContextKeySession, sess)

	return c, w
}

func (suite *UserHandlerTestSuite) adminSession() services.Session {
	admin := suite.createTestUser(models.RoleAdmin)
	return services.Session{UserID: admin.ID, Role: admin.Role}
}

func (suite *UserHandlerTestSuite) TestListUsersPaginated() {
	sess := suite.adminSession()
	for i := 0; i < 5; i++ {
		suite.createTestUser(models.RoleDeveloper)
	}

	c, w := suite.createAuthContext(http.MethodGet, "/api/users?page=1&limit=4", nil, sess)
	suite.handler.ListUsers(c)

	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Users      []dto.UserDTO `json:"users"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Users, 4)
	suite.Equal(int64(6), resp.Pagination.Total)
	suite.Equal(4, resp.Pagination.Limit)
}

func (suite *UserHandlerTestSuite) TestListUsersForbidden() {
	dev := suite.createTestUser(models.RoleDeveloper)
	sess := services.Session{UserID: dev.ID, Role: dev.Role}

	c, w := suite.createAuthContext(http.MethodGet, "/api/users", nil, sess)
	suite.handler.ListUsers(c)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *UserHandlerTestSuite) TestCreateUser() {
	sess := suite.adminSession()

	body, _ := json.Marshal(gin.H{
		"name":     "New Designer",
		"email":    "designer@example.com",
		"password": "supersecret",
		"role":     "designer",
	})
	c, w := suite.createAuthContext(http.MethodPost, "/api/users", body, sess)
	suite.handler.CreateUser(c)

	suite.Equal(http.StatusCreated, w.Code)

	var created dto.UserDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Equal(models.RoleDesigner, created.Role)
	suite.True(created.IsActive)
}

func (suite *UserHandlerTestSuite) TestUpdateUserRoleConflict() {
	sess := suite.adminSession()
	suite.createTestUser(models.RoleSuperAdmin)
	target := suite.createTestUser(models.RoleDeveloper)

	body, _ := json.Marshal(gin.H{"role": "super_admin"})
	c, w := suite.createAuthContext(http.MethodPatch, "/api/users/"+target.ID+"/role", body, sess)
	c.Params = gin.Params{{Key: "id", Value: target.ID}}
	suite.handler.UpdateUserRole(c)

	suite.Equal(http.StatusConflict, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("ROLE_CONFLICT", resp.Code)
}

func (suite *UserHandlerTestSuite) TestDeactivateSelfForbidden() {
	sess := suite.adminSession()

	c, w := suite.createAuthContext(http.MethodDelete, "/api/users/"+sess.UserID, nil, sess)
	c.Params = gin.Params{{Key: "id", Value: sess.UserID}}
	suite.handler.DeactivateUser(c)

	suite.Equal(http.StatusForbidden, w.Code)
}

// TestUserHandlerTestSuite runs the test suite
func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
