package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-events/pkg/logger"
	"campus-events/pkg/models"
	"campus-events/services/admin/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockAdminRepository is a mock implementation of AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) ListUsers() ([]*models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockAdminRepository) GetUser(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAdminRepository) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAdminRepository) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockAdminRepository) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockAdminRepository) DeleteUser(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAdminRepository) Stats() (*repository.Stats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Stats), args.Error(1)
}

func (m *MockAdminRepository) RecentEvents(limit int) ([]*models.Event, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

var _ repository.AdminRepository = (*MockAdminRepository)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func newAdminHandler(adminRepo *MockAdminRepository) *AdminHandler {
	return NewAdminHandler(adminRepo, nil, logger.New())
}

func postJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestListUsers(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.GET("/admin/users", handler.ListUsers)

	adminRepo.On("ListUsers").Return([]*models.User{
		{ID: "user-1", Name: "Sam Student", Email: "sam@campus.edu", Role: models.RoleStudent},
		{ID: "user-2", Name: "Ada Admin", Email: "ada@campus.edu", Role: models.RoleAdmin},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/users", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var users []models.User
	err := json.Unmarshal(w.Body.Bytes(), &users)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	// Hashes must never leak through the listing
	assert.NotContains(t, w.Body.String(), "password")
}

func TestCreateUser_DefaultPassword(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.POST("/admin/users", handler.CreateUser)

	adminRepo.On("GetUserByEmail", "new@campus.edu").Return(nil, gorm.ErrRecordNotFound)
	adminRepo.On("CreateUser", mock.AnythingOfType("*models.User")).Return(nil)

	w := postJSON(router, "POST", "/admin/users", gin.H{
		"name":  "New User",
		"email": "New@Campus.edu",
		"role":  "organizer",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	created := adminRepo.Calls[1].Arguments.Get(0).(*models.User)
	assert.Equal(t, "new@campus.edu", created.Email)
	assert.Equal(t, models.RoleOrganizer, created.Role)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte(defaultPassword)))

	adminRepo.AssertExpectations(t)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.POST("/admin/users", handler.CreateUser)

	adminRepo.On("GetUserByEmail", "sam@campus.edu").Return(&models.User{ID: "user-1"}, nil)

	w := postJSON(router, "POST", "/admin/users", gin.H{
		"name":  "Sam Again",
		"email": "sam@campus.edu",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
	adminRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.POST("/admin/users", handler.CreateUser)

	w := postJSON(router, "POST", "/admin/users", gin.H{
		"name":  "Strange Role",
		"email": "strange@campus.edu",
		"role":  "superuser",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	adminRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestUpdateUser_PatchesFields(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.PUT("/admin/users/:id", handler.UpdateUser)

	user := &models.User{ID: "user-1", Name: "Sam Student", Role: models.RoleStudent, Status: models.StatusActive}
	adminRepo.On("GetUser", "user-1").Return(user, nil)
	adminRepo.On("UpdateUser", mock.AnythingOfType("*models.User")).Return(nil)

	w := postJSON(router, "PUT", "/admin/users/user-1", gin.H{
		"status": "suspended",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusSuspended, user.Status)
	// Fields not in the request stay untouched
	assert.Equal(t, "Sam Student", user.Name)
	assert.Equal(t, models.RoleStudent, user.Role)

	adminRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.PUT("/admin/users/:id", handler.UpdateUser)

	adminRepo.On("GetUser", "missing").Return(nil, gorm.ErrRecordNotFound)

	w := postJSON(router, "PUT", "/admin/users/missing", gin.H{
		"name": "Nobody",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	adminRepo.AssertNotCalled(t, "UpdateUser", mock.Anything)
}

func TestUpdateUser_RepoError(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.PUT("/admin/users/:id", handler.UpdateUser)

	adminRepo.On("GetUser", "user-1").Return(nil, errors.New("connection refused"))

	w := postJSON(router, "PUT", "/admin/users/user-1", gin.H{
		"name": "Sam Renamed",
	})

	// An unreachable database is not the same as an unknown user
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	adminRepo.AssertNotCalled(t, "UpdateUser", mock.Anything)
}

func TestDeleteUser(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.DELETE("/admin/users/:id", handler.DeleteUser)

	adminRepo.On("GetUser", "user-1").Return(&models.User{ID: "user-1"}, nil)
	adminRepo.On("DeleteUser", "user-1").Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/admin/users/user-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User deleted successfully")

	adminRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.DELETE("/admin/users/:id", handler.DeleteUser)

	adminRepo.On("GetUser", "missing").Return(nil, gorm.ErrRecordNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/admin/users/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	adminRepo.AssertNotCalled(t, "DeleteUser", mock.Anything)
}

func TestGetStats(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.GET("/admin/stats", handler.GetStats)

	adminRepo.On("Stats").Return(&repository.Stats{
		TotalUsers:     10,
		TotalEvents:    7,
		ApprovedEvents: 5,
		PendingEvents:  2,
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats repository.Stats
	err := json.Unmarshal(w.Body.Bytes(), &stats)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.PendingEvents)
}

func TestGetRecentActivity_LimitsToThree(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	handler := newAdminHandler(adminRepo)

	router := setupTestRouter()
	router.GET("/admin/recent-activity", handler.GetRecentActivity)

	creator := &models.User{ID: "organizer-1", Name: "Robotics Society", Email: "robotics@campus.edu"}
	adminRepo.On("RecentEvents", 3).Return([]*models.Event{
		{ID: "event-1", Title: "Newest", Creator: creator},
		{ID: "event-2", Title: "Older", Creator: creator},
		{ID: "event-3", Title: "Oldest", Creator: creator},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/recent-activity", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var recent []models.PendingEvent
	err := json.Unmarshal(w.Body.Bytes(), &recent)
	assert.NoError(t, err)
	assert.Len(t, recent, 3)
	assert.Equal(t, "Robotics Society", recent[0].CreatedByUser.Name)

	adminRepo.AssertExpectations(t)
}
