package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"campus-events/pkg/logger"
	"campus-events/pkg/models"
	"campus-events/services/admin/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	statsCacheKey = "admin:stats"
	statsCacheTTL = 60 * time.Second

	// Accounts created by an admin start with this password until the
	// user changes it.
	defaultPassword = "Password@123"
)

type AdminHandler struct {
	adminRepo   repository.AdminRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewAdminHandler(adminRepo repository.AdminRepository, redisClient *redis.Client, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminRepo:   adminRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

type CreateUserRequest struct {
	Name   string `json:"name" binding:"required,min=2,max=100"`
	Email  string `json:"email" binding:"required,email"`
	Role   string `json:"role" binding:"omitempty,oneof=student organizer admin"`
	Status string `json:"status" binding:"omitempty,oneof=active suspended"`
}

type UpdateUserRequest struct {
	Name   string `json:"name" binding:"omitempty,min=2,max=100"`
	Role   string `json:"role" binding:"omitempty,oneof=student organizer admin"`
	Status string `json:"status" binding:"omitempty,oneof=active suspended"`
}

// ListUsers godoc
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.User
// @Failure      500  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminRepo.ListUsers()
	if err != nil {
		h.logger.Error("Failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	if users == nil {
		users = []*models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Create a user with a default password. The user should change it on first login.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateUserRequest true "User data"
// @Success      201  {object}  models.User
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(req.Email)
	if _, err := h.adminRepo.GetUserByEmail(email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists with this email"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("Failed to hash default password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	role := models.UserRole(req.Role)
	if role == "" {
		role = models.RoleStudent
	}
	status := models.UserStatus(req.Status)
	if status == "" {
		status = models.StatusActive
	}

	user := &models.User{
		Name:     req.Name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
		Status:   status,
	}

	if err := h.adminRepo.CreateUser(user); err != nil {
		h.logger.Error("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.invalidateStats(c)
	c.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Patch name, role or status of an existing user.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body UpdateUserRequest true "Fields to update"
// @Success      200  {object}  models.User
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := h.lookupUser(c, c.Param("id"))
	if !ok {
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		user.Role = models.UserRole(req.Role)
	}
	if req.Status != "" {
		user.Status = models.UserStatus(req.Status)
	}

	if err := h.adminRepo.UpdateUser(user); err != nil {
		h.logger.Error("Failed to update user %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	if _, ok := h.lookupUser(c, id); !ok {
		return
	}

	if err := h.adminRepo.DeleteUser(id); err != nil {
		h.logger.Error("Failed to delete user %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	h.invalidateStats(c)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// GetStats godoc
// @Summary      Dashboard statistics
// @Description  Aggregate user and event counts, cached for one minute.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  repository.Stats
// @Failure      500  {object}  map[string]string
// @Router       /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	if h.redisClient != nil {
		if cached, err := h.redisClient.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats repository.Stats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				c.JSON(http.StatusOK, stats)
				return
			}
		}
	}

	stats, err := h.adminRepo.Stats()
	if err != nil {
		h.logger.Error("Failed to compute stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	if h.redisClient != nil {
		if payload, err := json.Marshal(stats); err == nil {
			h.redisClient.Set(ctx, statsCacheKey, payload, statsCacheTTL)
		}
	}

	c.JSON(http.StatusOK, stats)
}

// lookupUser fetches a user and writes the error response itself: 404 for an
// unknown id, 500 for anything else.
func (h *AdminHandler) lookupUser(c *gin.Context, id string) (*models.User, bool) {
	user, err := h.adminRepo.GetUser(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			h.logger.Error("Failed to fetch user %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		}
		return nil, false
	}
	return user, true
}

func (h *AdminHandler) invalidateStats(c *gin.Context) {
	if h.redisClient != nil {
		h.redisClient.Del(c.Request.Context(), statsCacheKey)
	}
}

// GetRecentActivity godoc
// @Summary      Recent activity
// @Description  The three most recently submitted events with creator names.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.PendingEvent
// @Failure      500  {object}  map[string]string
// @Router       /admin/recent-activity [get]
func (h *AdminHandler) GetRecentActivity(c *gin.Context) {
	events, err := h.adminRepo.RecentEvents(3)
	if err != nil {
		h.logger.Error("Failed to fetch recent activity: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent activity"})
		return
	}

	recent := make([]models.PendingEvent, 0, len(events))
	for _, event := range events {
		var creator models.PublicUser
		if event.Creator != nil {
			creator = event.Creator.Public()
		}
		recent = append(recent, models.PendingEvent{Event: *event, CreatedByUser: creator})
	}

	c.JSON(http.StatusOK, recent)
}
