package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"campus-events/pkg/logger"
	"campus-events/pkg/models"
	"campus-events/pkg/s3"
	"campus-events/services/event/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type EventHandler struct {
	eventRepo    repository.EventRepository
	bookmarkRepo repository.BookmarkRepository
	regRepo      repository.RegistrationRepository
	s3Client     *s3.Client
	logger       *logger.Logger
}

func NewEventHandler(eventRepo repository.EventRepository, bookmarkRepo repository.BookmarkRepository, regRepo repository.RegistrationRepository, s3Client *s3.Client, logger *logger.Logger) *EventHandler {
	return &EventHandler{
		eventRepo:    eventRepo,
		bookmarkRepo: bookmarkRepo,
		regRepo:      regRepo,
		s3Client:     s3Client,
		logger:       logger,
	}
}

type CreateEventRequest struct {
	Title        string `form:"title" binding:"required"`
	Description  string `form:"description" binding:"required"`
	Date         string `form:"date" binding:"required"`
	Location     string `form:"location" binding:"required"`
	Category     string `form:"category" binding:"required"`
	RegisterLink string `form:"registerLink" binding:"required,url"`
	ImageURL     string `form:"imageUrl" binding:"omitempty,url"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var createEventFields = map[string]string{
	"Title":        "title",
	"Description":  "description",
	"Date":         "date",
	"Location":     "location",
	"Category":     "category",
	"RegisterLink": "registerLink",
	"ImageURL":     "imageUrl",
}

func fieldError(fe validator.FieldError) FieldError {
	field := createEventFields[fe.Field()]
	if field == "" {
		field = strings.ToLower(fe.Field())
	}

	var message string
	switch fe.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", field)
	case "url":
		message = fmt.Sprintf("%s must be a valid URL", field)
	default:
		message = fmt.Sprintf("%s is invalid", field)
	}
	return FieldError{Field: field, Message: message}
}

// parseEventDate accepts RFC3339 or the datetime-local format submitted by
// browser forms.
func parseEventDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", value)
}

// uploadKeyFromURL recovers the storage key from an uploaded object URL, for
// both path-style (MinIO) and virtual-hosted (AWS) URLs. External image URLs
// yield "".
func uploadKeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(u.Path, "/")
	if strings.HasPrefix(path, "events/") {
		return path
	}
	if i := strings.Index(path, "/events/"); i >= 0 {
		return path[i+1:]
	}
	return ""
}

// lookupEvent fetches an event and writes the error response itself: 404 for
// an unknown id, 500 for anything else.
func (h *EventHandler) lookupEvent(c *gin.Context, id string) (*models.Event, bool) {
	event, err := h.eventRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			h.logger.Error("Failed to fetch event %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return nil, false
	}
	return event, true
}

// CreateEvent godoc
// @Summary      Submit a new event
// @Description  Create an event for admin review. The event stays hidden from public listings until approved. Image is either an uploaded file or an external URL.
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Event title"
// @Param        description formData string true "Event description"
// @Param        date formData string true "Event date (RFC3339 or YYYY-MM-DDTHH:MM)"
// @Param        location formData string true "Event location"
// @Param        category formData string true "Event category"
// @Param        registerLink formData string true "Registration link URL"
// @Param        image formData file false "Event image (jpg/jpeg/png/webp)"
// @Param        imageUrl formData string false "External image URL"
// @Success      201  {object}  models.Event
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateEventRequest
	var fieldErrors []FieldError

	if err := c.ShouldBind(&req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form"})
			return
		}
		// Report every violated field, not just the first
		for _, fe := range verrs {
			fieldErrors = append(fieldErrors, fieldError(fe))
		}
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := parseEventDate(req.Date)
		if err != nil {
			fieldErrors = append(fieldErrors, FieldError{Field: "date", Message: "date must be a valid timestamp"})
		} else {
			date = parsed
		}
	}

	file, fileErr := c.FormFile("image")
	if fileErr == nil {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedImageExts[ext] {
			fieldErrors = append(fieldErrors, FieldError{Field: "image", Message: "only .jpg, .jpeg, .png and .webp images are allowed"})
		}
	}

	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fieldErrors})
		return
	}

	image := strings.TrimSpace(req.ImageURL)
	if fileErr == nil {
		src, err := file.Open()
		if err != nil {
			h.logger.Error("Failed to open uploaded file: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
			return
		}
		defer src.Close()

		ext := strings.ToLower(filepath.Ext(file.Filename))
		fileKey := fmt.Sprintf("events/%s/%s%s", userID, uuid.New().String(), ext)
		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}

		uploadedURL, err := h.s3Client.UploadFile(fileKey, src, contentType)
		if err != nil {
			h.logger.Error("Failed to upload image: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		image = uploadedURL
	}

	event := &models.Event{
		Title:        req.Title,
		Description:  req.Description,
		Date:         date,
		Location:     req.Location,
		Category:     req.Category,
		RegisterLink: req.RegisterLink,
		Image:        image,
		Approved:     false,
		CreatedBy:    userID,
	}

	if err := h.eventRepo.Create(event); err != nil {
		h.logger.Error("Failed to create event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ListApprovedEvents godoc
// @Summary      List approved events
// @Description  Get all approved events ordered by date, earliest first. Public.
// @Tags         events
// @Produce      json
// @Success      200  {array}   models.Event
// @Failure      500  {object}  map[string]string
// @Router       /events [get]
func (h *EventHandler) ListApprovedEvents(c *gin.Context) {
	events, err := h.eventRepo.ListApproved()
	if err != nil {
		h.logger.Error("Failed to list approved events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	if events == nil {
		events = []*models.Event{}
	}
	c.JSON(http.StatusOK, events)
}

// ListMyEvents godoc
// @Summary      List the caller's events
// @Description  Get all events created by the authenticated organizer, newest first, regardless of approval state.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Event
// @Failure      500  {object}  map[string]string
// @Router       /events/my [get]
func (h *EventHandler) ListMyEvents(c *gin.Context) {
	userID := c.GetString("user_id")

	events, err := h.eventRepo.ListByCreator(userID)
	if err != nil {
		h.logger.Error("Failed to list events for organizer %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch your events"})
		return
	}

	if events == nil {
		events = []*models.Event{}
	}
	c.JSON(http.StatusOK, events)
}

// ListPendingEvents godoc
// @Summary      List events awaiting review
// @Description  Get all unapproved events with creator details. Admin only.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.PendingEvent
// @Failure      500  {object}  map[string]string
// @Router       /events/pending/all [get]
func (h *EventHandler) ListPendingEvents(c *gin.Context) {
	events, err := h.eventRepo.ListPending()
	if err != nil {
		h.logger.Error("Failed to list pending events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending events"})
		return
	}

	pending := make([]models.PendingEvent, 0, len(events))
	for _, event := range events {
		var creator models.PublicUser
		if event.Creator != nil {
			creator = event.Creator.Public()
		}
		pending = append(pending, models.PendingEvent{Event: *event, CreatedByUser: creator})
	}

	c.JSON(http.StatusOK, pending)
}

type DecideRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// DecideEvent godoc
// @Summary      Approve or reject an event
// @Description  Approving makes the event publicly visible. Rejecting permanently deletes it; there is no undo.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Event ID"
// @Param        request body DecideRequest true "Decision"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /events/{id}/approve [put]
func (h *EventHandler) DecideEvent(c *gin.Context) {
	eventID := c.Param("id")

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if *req.Approved {
		event, err := h.eventRepo.Approve(eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
				return
			}
			h.logger.Error("Failed to approve event %s: %v", eventID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve event"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Event approved successfully", "event": event})
		return
	}

	event, ok := h.lookupEvent(c, eventID)
	if !ok {
		return
	}
	if err := h.eventRepo.Delete(eventID); err != nil {
		h.logger.Error("Failed to delete rejected event %s: %v", eventID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject event"})
		return
	}

	// Rejected events are gone for good; drop their uploaded image too.
	if key := uploadKeyFromURL(event.Image); key != "" && h.s3Client != nil {
		if err := h.s3Client.DeleteFile(key); err != nil {
			h.logger.Warn("Failed to delete image for rejected event %s: %v", eventID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event rejected and deleted"})
}

// GetEvent godoc
// @Summary      Get event by ID
// @Description  Approved events are public. Unapproved events resolve only for their creator or an admin; everyone else gets 404.
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200  {object}  models.Event
// @Failure      404  {object}  map[string]string
// @Router       /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	event, ok := h.lookupEvent(c, eventID)
	if !ok {
		return
	}

	if !event.Approved {
		userID := c.GetString("user_id")
		role := c.GetString("user_role")
		// Deny by default: a 404 here does not reveal whether the id exists
		if role != string(models.RoleAdmin) && userID != event.CreatedBy {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
	}

	c.JSON(http.StatusOK, event)
}

// RegisterForEvent godoc
// @Summary      Register for an event
// @Description  Register the authenticated user for an event. Repeated registration fails.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Event ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/register [post]
func (h *EventHandler) RegisterForEvent(c *gin.Context) {
	eventID := c.Param("id")
	userID := c.GetString("user_id")

	if _, ok := h.lookupEvent(c, eventID); !ok {
		return
	}

	if err := h.regRepo.Register(eventID, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyRegistered) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already registered"})
			return
		}
		h.logger.Error("Failed to register user %s for event %s: %v", userID, eventID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registered successfully"})
}

// GetEventRegistrations godoc
// @Summary      List registered users for an event
// @Description  Returns the users registered for an event. Restricted to the event owner and admins.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Event ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/registrations [get]
func (h *EventHandler) GetEventRegistrations(c *gin.Context) {
	eventID := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("user_role")

	event, ok := h.lookupEvent(c, eventID)
	if !ok {
		return
	}

	if role != string(models.RoleAdmin) && event.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	users, err := h.regRepo.ListUsers(eventID)
	if err != nil {
		h.logger.Error("Failed to list registrations for event %s: %v", eventID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registered users"})
		return
	}

	if users == nil {
		users = []models.PublicUser{}
	}
	c.JSON(http.StatusOK, gin.H{"registeredUsers": users})
}

// ToggleBookmark godoc
// @Summary      Toggle a bookmark
// @Description  Bookmark the event if not bookmarked, remove the bookmark otherwise. Calling twice restores the original state.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Event ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /events/{id}/bookmark [post]
func (h *EventHandler) ToggleBookmark(c *gin.Context) {
	eventID := c.Param("id")
	userID := c.GetString("user_id")

	if _, ok := h.lookupEvent(c, eventID); !ok {
		return
	}

	bookmarked, err := h.bookmarkRepo.Toggle(userID, eventID)
	if err != nil {
		h.logger.Error("Failed to toggle bookmark for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bookmark"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bookmark updated", "bookmarked": bookmarked})
}

// GetBookmarkedEvents godoc
// @Summary      List bookmarked events
// @Description  Get all events bookmarked by the authenticated user.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Event
// @Failure      500  {object}  map[string]string
// @Router       /events/bookmarked [get]
func (h *EventHandler) GetBookmarkedEvents(c *gin.Context) {
	userID := c.GetString("user_id")

	events, err := h.bookmarkRepo.ListEvents(userID)
	if err != nil {
		h.logger.Error("Failed to list bookmarks for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarked events"})
		return
	}

	if events == nil {
		events = []*models.Event{}
	}
	c.JSON(http.StatusOK, events)
}
