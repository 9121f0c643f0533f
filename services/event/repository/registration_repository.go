package repository

import (
	"errors"

	"campus-events/pkg/models"

	"gorm.io/gorm"
)

var ErrAlreadyRegistered = errors.New("already registered")

type RegistrationRepository interface {
	Register(eventID, userID string) error
	ListUsers(eventID string) ([]models.PublicUser, error)
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Register(eventID, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.EventRegistration{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyRegistered
		}
		return tx.Create(&models.EventRegistration{EventID: eventID, UserID: userID}).Error
	})
}

func (r *registrationRepository) ListUsers(eventID string) ([]models.PublicUser, error) {
	var users []models.PublicUser
	err := r.db.Table("users").
		Select("users.id, users.name, users.email, users.role").
		Joins("INNER JOIN event_registrations ON event_registrations.user_id = users.id").
		Where("event_registrations.event_id = ?", eventID).
		Order("event_registrations.created_at ASC").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
