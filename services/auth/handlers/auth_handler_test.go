package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-events/pkg/config"
	"campus-events/pkg/jwt"
	"campus-events/pkg/logger"
	"campus-events/pkg/models"
	"campus-events/services/auth/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func testConfig() *config.Config {
	return &config.Config{
		OrganizerSecret: "organizer-secret",
		AdminSecret:     "admin-secret",
	}
}

func newAuthHandler(userRepo *MockUserRepository) *AuthHandler {
	return NewAuthHandler(userRepo, jwt.NewService("test-secret-key"), testConfig(), logger.New())
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRegister_StudentByDefault(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.POST("/auth/register", handler.Register)

	userRepo.On("GetByEmail", "sam@campus.edu").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		user := args.Get(0).(*models.User)
		user.ID = "user-1"
	}).Return(nil)

	w := postJSON(router, "/auth/register", gin.H{
		"name":     "Sam Student",
		"email":    "Sam@Campus.edu",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response AuthResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, models.RoleStudent, response.User.Role)
	assert.Equal(t, "sam@campus.edu", response.User.Email)
	// Password must never appear in the response
	assert.NotContains(t, w.Body.String(), "secret123")
	assert.NotContains(t, w.Body.String(), "password")

	userRepo.AssertExpectations(t)
}

func TestRegister_TokenCarriesRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	jwtService := jwt.NewService("test-secret-key")
	handler := NewAuthHandler(userRepo, jwtService, testConfig(), logger.New())

	router := setupTestRouter()
	router.POST("/auth/register", handler.Register)

	userRepo.On("GetByEmail", "org@campus.edu").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = "user-2"
	}).Return(nil)

	w := postJSON(router, "/auth/register", gin.H{
		"name":       "Robotics Society",
		"email":      "org@campus.edu",
		"password":   "secret123",
		"role":       "organizer",
		"roleSecret": "organizer-secret",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response AuthResponse
	json.Unmarshal(w.Body.Bytes(), &response)

	claims, err := jwtService.ValidateToken(response.Token)
	assert.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID)
	assert.Equal(t, "organizer", claims.Role)
}

func TestRegister_OrganizerWrongSecret(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.POST("/auth/register", handler.Register)

	w := postJSON(router, "/auth/register", gin.H{
		"name":       "Wannabe Organizer",
		"email":      "nope@campus.edu",
		"password":   "secret123",
		"role":       "organizer",
		"roleSecret": "wrong",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_AdminSecretUnsetBlocksRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	cfg := &config.Config{OrganizerSecret: "organizer-secret"} // no admin secret configured
	handler := NewAuthHandler(userRepo, jwt.NewService("test-secret-key"), cfg, logger.New())

	router := setupTestRouter()
	router.POST("/auth/register", handler.Register)

	w := postJSON(router, "/auth/register", gin.H{
		"name":       "Wannabe Admin",
		"email":      "nope@campus.edu",
		"password":   "secret123",
		"role":       "admin",
		"roleSecret": "",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.POST("/auth/register", handler.Register)

	existing := &models.User{ID: "user-1", Email: "sam@campus.edu"}
	userRepo.On("GetByEmail", "sam@campus.edu").Return(existing, nil)

	w := postJSON(router, "/auth/register", gin.H{
		"name":     "Sam Student",
		"email":    "sam@campus.edu",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_InvalidPayload(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.POST("/auth/register", handler.Register)

	w := postJSON(router, "/auth/register", gin.H{
		"name":     "S",
		"email":    "not-an-email",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.POST("/auth/login", handler.Login)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-1",
		Name:     "Sam Student",
		Email:    "sam@campus.edu",
		Password: string(hashed),
		Role:     models.RoleStudent,
		Status:   models.StatusActive,
	}
	userRepo.On("GetByEmail", "sam@campus.edu").Return(user, nil)

	w := postJSON(router, "/auth/login", gin.H{
		"email":    "sam@campus.edu",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response AuthResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "user-1", response.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.POST("/auth/login", handler.Login)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Email: "sam@campus.edu", Password: string(hashed), Status: models.StatusActive}
	userRepo.On("GetByEmail", "sam@campus.edu").Return(user, nil)

	w := postJSON(router, "/auth/login", gin.H{
		"email":    "sam@campus.edu",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.POST("/auth/login", handler.Login)

	userRepo.On("GetByEmail", "ghost@campus.edu").Return(nil, gorm.ErrRecordNotFound)

	w := postJSON(router, "/auth/login", gin.H{
		"email":    "ghost@campus.edu",
		"password": "whatever1",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestLogin_SuspendedAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.POST("/auth/login", handler.Login)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Email: "sam@campus.edu", Password: string(hashed), Status: models.StatusSuspended}
	userRepo.On("GetByEmail", "sam@campus.edu").Return(user, nil)

	w := postJSON(router, "/auth/login", gin.H{
		"email":    "sam@campus.edu",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "suspended")
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.POST("/auth/update-password", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.UpdatePassword(c)
	})

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Password: string(hashed)}
	userRepo.On("GetByID", "user-1").Return(user, nil)

	w := postJSON(router, "/auth/update-password", gin.H{
		"currentPassword": "wrong",
		"newPassword":     "newsecret1",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	userRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUpdatePassword_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.POST("/auth/update-password", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.UpdatePassword(c)
	})

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Password: string(hashed)}
	userRepo.On("GetByID", "user-1").Return(user, nil)
	userRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil)

	w := postJSON(router, "/auth/update-password", gin.H{
		"currentPassword": "secret123",
		"newPassword":     "newsecret1",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Password updated successfully")

	// The stored hash must verify against the new password
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("newsecret1"))
	assert.NoError(t, err)

	userRepo.AssertExpectations(t)
}

func TestMe(t *testing.T) {
	userRepo := new(MockUserRepository)
	handler := newAuthHandler(userRepo)

	router := setupTestRouter()
	router.GET("/auth/me", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.Me(c)
	})

	user := &models.User{ID: "user-1", Name: "Sam Student", Email: "sam@campus.edu", Role: models.RoleStudent}
	userRepo.On("GetByID", "user-1").Return(user, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/auth/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sam@campus.edu")
}
