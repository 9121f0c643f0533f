package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"campus-events/pkg/logger"
	"campus-events/pkg/models"
	"campus-events/pkg/s3"
	"campus-events/services/organization/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedLogoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type OrganizationHandler struct {
	orgRepo    repository.OrganizationRepository
	followRepo repository.FollowRepository
	s3Client   *s3.Client
	logger     *logger.Logger
}

func NewOrganizationHandler(orgRepo repository.OrganizationRepository, followRepo repository.FollowRepository, s3Client *s3.Client, logger *logger.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		orgRepo:    orgRepo,
		followRepo: followRepo,
		s3Client:   s3Client,
		logger:     logger,
	}
}

type CreateOrganizationRequest struct {
	Name         string `form:"name" binding:"required,min=2,max=100"`
	Description  string `form:"description"`
	Category     string `form:"category" binding:"omitempty,oneof=Tech Arts Cultural Sports Other"`
	ContactEmail string `form:"contactEmail" binding:"omitempty,email"`
	Website      string `form:"socialLinks[website]" binding:"omitempty,url"`
	Instagram    string `form:"socialLinks[instagram]"`
	Twitter      string `form:"socialLinks[twitter]"`
}

// ListOrganizations godoc
// @Summary      List organizations
// @Description  Get all student organizations with president and members resolved. Public.
// @Tags         organizations
// @Produce      json
// @Success      200  {array}   models.OrganizationView
// @Failure      500  {object}  map[string]string
// @Router       /organizations [get]
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.orgRepo.List()
	if err != nil {
		h.logger.Error("Failed to list organizations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organizations"})
		return
	}

	views := make([]models.OrganizationView, 0, len(orgs))
	for _, org := range orgs {
		views = append(views, h.view(org))
	}

	c.JSON(http.StatusOK, views)
}

// GetOrganization godoc
// @Summary      Get organization by ID
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID"
// @Success      200  {object}  models.OrganizationView
// @Failure      404  {object}  map[string]string
// @Router       /organizations/{id} [get]
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, ok := h.lookupOrganization(c, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.view(org))
}

// lookupOrganization fetches an organization and writes the error response
// itself: 404 for an unknown id, 500 for anything else.
func (h *OrganizationHandler) lookupOrganization(c *gin.Context, id string) (*models.Organization, bool) {
	org, err := h.orgRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			h.logger.Error("Failed to fetch organization %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organization"})
		}
		return nil, false
	}
	return org, true
}

func (h *OrganizationHandler) view(org *models.Organization) models.OrganizationView {
	var president models.PublicUser
	if org.President != nil {
		president = org.President.Public()
	}

	members, err := h.orgRepo.Members(org.ID)
	if err != nil {
		h.logger.Warn("Failed to resolve members for organization %s: %v", org.ID, err)
	}

	return org.View(president, members)
}

// CreateOrganization godoc
// @Summary      Create an organization
// @Description  Create a student organization. The authenticated organizer becomes president and first member.
// @Tags         organizations
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name formData string true "Organization name"
// @Param        description formData string false "Description"
// @Param        category formData string false "Category" Enums(Tech, Arts, Cultural, Sports, Other)
// @Param        contactEmail formData string false "Contact email"
// @Param        logo formData file false "Logo image (jpg/jpeg/png/webp)"
// @Success      201  {object}  models.OrganizationView
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /organizations [post]
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateOrganizationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.OrgCategory(req.Category)
	if category == "" {
		category = models.OrgCategoryOther
	}

	var logo string
	if file, err := c.FormFile("logo"); err == nil {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedLogoExts[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only .jpg, .jpeg, .png and .webp images are allowed"})
			return
		}

		src, err := file.Open()
		if err != nil {
			h.logger.Error("Failed to open uploaded logo: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
			return
		}
		defer src.Close()

		fileKey := fmt.Sprintf("organizations/%s/%s%s", userID, uuid.New().String(), ext)
		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}

		uploadedURL, err := h.s3Client.UploadFile(fileKey, src, contentType)
		if err != nil {
			h.logger.Error("Failed to upload logo: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload logo"})
			return
		}
		logo = uploadedURL
	}

	org := &models.Organization{
		Name:         req.Name,
		Description:  req.Description,
		Category:     category,
		ContactEmail: strings.ToLower(req.ContactEmail),
		Logo:         logo,
		Website:      req.Website,
		Instagram:    req.Instagram,
		Twitter:      req.Twitter,
		PresidentID:  userID,
	}

	if err := h.orgRepo.Create(org); err != nil {
		h.logger.Error("Failed to create organization: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
		return
	}

	c.JSON(http.StatusCreated, h.view(org))
}

// ToggleFollow godoc
// @Summary      Follow or unfollow an organization
// @Description  Follow the organization if not following, unfollow otherwise.
// @Tags         organizations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Organization ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /organizations/{id}/follow [post]
func (h *OrganizationHandler) ToggleFollow(c *gin.Context) {
	orgID := c.Param("id")
	userID := c.GetString("user_id")

	if _, ok := h.lookupOrganization(c, orgID); !ok {
		return
	}

	followed, err := h.followRepo.Toggle(userID, orgID)
	if err != nil {
		h.logger.Error("Failed to toggle follow for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update follow"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"followed": followed})
}

// GetFollowedOrganizations godoc
// @Summary      List followed organizations
// @Description  Get all organizations the authenticated user follows.
// @Tags         organizations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Organization
// @Failure      500  {object}  map[string]string
// @Router       /organizations/followed/me [get]
func (h *OrganizationHandler) GetFollowedOrganizations(c *gin.Context) {
	userID := c.GetString("user_id")

	orgs, err := h.followRepo.ListOrganizations(userID)
	if err != nil {
		h.logger.Error("Failed to list followed organizations for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch followed organizations"})
		return
	}

	if orgs == nil {
		orgs = []*models.Organization{}
	}
	c.JSON(http.StatusOK, orgs)
}
