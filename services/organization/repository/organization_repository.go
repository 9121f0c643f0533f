package repository

import (
	"campus-events/pkg/models"

	"gorm.io/gorm"
)

type OrganizationRepository interface {
	Create(org *models.Organization) error
	GetByID(id string) (*models.Organization, error)
	List() ([]*models.Organization, error)
	Members(orgID string) ([]models.PublicUser, error)
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// Create stores the organization and enrolls the president as its first
// member in the same transaction.
func (r *organizationRepository) Create(org *models.Organization) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		member := &models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         org.PresidentID,
		}
		return tx.Create(member).Error
	})
}

func (r *organizationRepository) GetByID(id string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Preload("President").Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) List() ([]*models.Organization, error) {
	var orgs []*models.Organization
	if err := r.db.Preload("President").Order("created_at DESC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *organizationRepository) Members(orgID string) ([]models.PublicUser, error) {
	var members []models.PublicUser
	err := r.db.Table("users").
		Select("users.id, users.name, users.email, users.role").
		Joins("INNER JOIN organization_members ON organization_members.user_id = users.id").
		Where("organization_members.organization_id = ?", orgID).
		Order("organization_members.created_at ASC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
