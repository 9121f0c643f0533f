package repository

import (
	"campus-events/pkg/models"

	"gorm.io/gorm"
)

type FollowRepository interface {
	Toggle(userID, orgID string) (bool, error)
	ListOrganizations(userID string) ([]*models.Organization, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Toggle flips follow membership for (userID, orgID) and reports the
// resulting state, same shape as the bookmark toggle.
func (r *followRepository) Toggle(userID, orgID string) (bool, error) {
	var followed bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.OrganizationFollow{}).
			Where("user_id = ? AND organization_id = ?", userID, orgID).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			followed = false
			return tx.Where("user_id = ? AND organization_id = ?", userID, orgID).
				Delete(&models.OrganizationFollow{}).Error
		}

		followed = true
		return tx.Create(&models.OrganizationFollow{UserID: userID, OrganizationID: orgID}).Error
	})
	if err != nil {
		return false, err
	}
	return followed, nil
}

func (r *followRepository) ListOrganizations(userID string) ([]*models.Organization, error) {
	var orgs []*models.Organization
	err := r.db.Table("organizations").
		Select("organizations.*").
		Joins("INNER JOIN organization_follows ON organization_follows.organization_id = organizations.id").
		Where("organization_follows.user_id = ?", userID).
		Order("organization_follows.created_at DESC").
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}
